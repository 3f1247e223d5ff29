package logic

import (
	"errors"

	"github.com/blues/wcf/internal/model"
	"gorm.io/gorm"
)

// 贡献记录业务校验错误
var (
	ErrInvalidAmount        = errors.New("贡献金额必须大于0")
	ErrOrderAlreadyRecorded = errors.New("订单贡献已记录")
)

// ContributeLogic 贡献记录业务逻辑
type ContributeLogic struct {
	db *gorm.DB
}

// NewContributeLogic 创建贡献记录业务逻辑
func NewContributeLogic(db *gorm.DB) *ContributeLogic {
	return &ContributeLogic{db: db}
}

// CompleteOrder 完成订单。订单归属众筹项目时同时记录贡献：
// 进度与支持人数按订单累加一次，达到目标金额则项目转为完成。
func (c *ContributeLogic) CompleteOrder(orderId int64) error {
	var order model.OrderModel
	if err := c.db.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusProcessing {
		return ErrOrderNotCompletable
	}

	tx := c.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 条件更新，避免并发完成同一订单
	res := tx.Model(&model.OrderModel{}).
		Where("id = ? AND status IN ?", orderId,
			[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusProcessing}).
		Update("status", model.OrderStatusCompleted)
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return ErrOrderNotCompletable
	}

	var items []model.OrderItemModel
	if err := tx.Where("order_id = ?", orderId).Find(&items).Error; err != nil {
		tx.Rollback()
		return err
	}

	projectId, total := attributeOrder(items)
	if projectId == 0 {
		// 普通订单，与账本无关
		return tx.Commit().Error
	}

	if err := c.recordContribution(tx, projectId, orderId, total); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// recordContribution 账本核心。自增由数据库执行，
// 状态转移带条件，两个并发订单不会丢失更新，
// 也不会与过期检查竞争出已取消项目的完成态。
func (c *ContributeLogic) recordContribution(tx *gorm.DB, projectId, orderId, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	var project model.ProjectModel
	if err := tx.First(&project, projectId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	if !project.IsSet() {
		return ErrProjectNotSet
	}
	if project.Status != model.ProjectStatusOpen {
		return ErrProjectNotOpen
	}

	// 每个订单只计一次，order_id 上有唯一索引兜底
	var existing int64
	if err := tx.Model(&model.ContributeRecordModel{}).
		Where("order_id = ?", orderId).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return ErrOrderAlreadyRecorded
	}

	record := model.ContributeRecordModel{
		OrderId:   orderId,
		ProjectId: projectId,
		Amount:    amount,
	}
	if err := tx.Create(&record).Error; err != nil {
		return err
	}

	res := tx.Model(&model.ProjectModel{}).
		Where("id = ? AND status = ?", projectId, model.ProjectStatusOpen).
		Updates(map[string]interface{}{
			"current_amount":    gorm.Expr("current_amount + ?", amount),
			"contributor_count": gorm.Expr("contributor_count + ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProjectNotOpen
	}

	// 达到目标金额则转为完成
	if err := tx.Model(&model.ProjectModel{}).
		Where("id = ? AND status = ? AND goal_amount > 0 AND current_amount >= goal_amount",
			projectId, model.ProjectStatusOpen).
		Update("status", model.ProjectStatusComplete).Error; err != nil {
		return err
	}

	return nil
}

// GetProjectContributeRecords 获取项目贡献记录
func (c *ContributeLogic) GetProjectContributeRecords(projectId int64, page, pageSize int) ([]model.ContributeRecordModel, int64, error) {
	var records []model.ContributeRecordModel
	var total int64

	if err := c.db.Model(&model.ContributeRecordModel{}).
		Where("project_id = ?", projectId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := c.db.Where("project_id = ?", projectId).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// Contributor 公开的支持者条目
type Contributor struct {
	OrderId    int64  `json:"order_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Amount     int64  `json:"amount"`
	ShowAmount bool   `json:"show_amount"`
}

// GetContributors 获取项目的公开支持者列表和匿名支持者数量。
// 只有勾选公开身份的订单出现在列表中，金额按订单意愿决定是否展示。
func (c *ContributeLogic) GetContributors(projectId int64) ([]Contributor, int64, error) {
	var anonymousCount int64
	if err := c.db.Raw(`
		SELECT COUNT(*)
		FROM contribute_record cr
		JOIN shop_order o ON o.id = cr.order_id
		WHERE cr.project_id = ? AND o.publish_donator = ?`,
		projectId, false).Scan(&anonymousCount).Error; err != nil {
		return nil, 0, err
	}

	var contributors []Contributor
	if err := c.db.Raw(`
		SELECT cr.order_id AS order_id,
			o.billing_first_name AS first_name,
			o.billing_last_name AS last_name,
			o.contribution_total AS amount,
			o.publish_amount AS show_amount
		FROM contribute_record cr
		JOIN shop_order o ON o.id = cr.order_id
		WHERE cr.project_id = ? AND o.publish_donator = ?
		ORDER BY cr.id DESC`,
		projectId, true).Scan(&contributors).Error; err != nil {
		return nil, 0, err
	}

	// 不愿公开金额的条目不返回金额
	for i := range contributors {
		if !contributors[i].ShowAmount {
			contributors[i].Amount = 0
		}
	}

	return contributors, anonymousCount, nil
}
