package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/wcf/internal/model"
	"gorm.io/gorm"
)

// 订单相关业务校验错误
var (
	ErrOrderNotFound       = errors.New("订单不存在")
	ErrOrderNotCompletable = errors.New("订单状态不允许完成")
	ErrLevelMismatch       = errors.New("支持档位不属于该项目")
)

// OrderLogic 订单业务逻辑
type OrderLogic struct {
	db        *gorm.DB
	cartLogic *CartLogic
}

// NewOrderLogic 创建订单业务逻辑
func NewOrderLogic(db *gorm.DB) *OrderLogic {
	return &OrderLogic{
		db:        db,
		cartLogic: NewCartLogic(db),
	}
}

// CreateOrder 结账创建订单，逐项执行加购守卫并推导项目归属
func (o *OrderLogic) CreateOrder(order *model.OrderModel, items []model.OrderItemModel) error {
	if len(items) == 0 {
		return errors.New("订单不能没有行项目")
	}

	// 复演加购过程，保证订单组成满足守卫约束
	cart := CartState{}
	for i := range items {
		item := &items[i]

		if item.Total <= 0 {
			return errors.New("行项目金额必须大于0")
		}

		if err := ValidateCartAddition(cart, item.ProjectId); err != nil {
			return err
		}

		if item.ProjectId > 0 {
			cart.ProjectId = item.ProjectId
		} else {
			cart.HasStandardItems = true
		}

		if item.Quantity <= 0 {
			item.Quantity = 1
		}
	}

	// 项目订单还要求项目已配置且未结束
	if cart.ProjectId > 0 {
		if err := o.cartLogic.CheckContributionAllowed(cart.ProjectId, time.Now()); err != nil {
			return err
		}
		if err := o.validateLevels(cart.ProjectId, items); err != nil {
			return err
		}
	}

	projectId, total := attributeOrder(items)
	order.ProjectId = projectId
	order.ContributionTotal = total
	order.Status = model.OrderStatusPending
	if order.OrderNumber == "" {
		order.OrderNumber = fmt.Sprintf("WC-%d", time.Now().UnixNano())
	}

	tx := o.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := range items {
		items[i].OrderId = order.Id
		if err := tx.Create(&items[i]).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// GetOrders 获取订单列表，可按项目过滤
func (o *OrderLogic) GetOrders(projectId int64, status string, page, pageSize int) ([]model.OrderModel, int64, error) {
	var orders []model.OrderModel
	var total int64

	query := o.db.Model(&model.OrderModel{})
	if projectId > 0 {
		query = query.Where("project_id = ?", projectId)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GetOrder 获取订单详情及其行项目
func (o *OrderLogic) GetOrder(id int64) (*model.OrderModel, []model.OrderItemModel, error) {
	var order model.OrderModel
	if err := o.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}

	var items []model.OrderItemModel
	if err := o.db.Where("order_id = ?", id).Order("id ASC").Find(&items).Error; err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

// validateLevels 校验行项目引用的档位确实属于该项目
func (o *OrderLogic) validateLevels(projectId int64, items []model.OrderItemModel) error {
	for _, item := range items {
		if item.LevelId == 0 {
			continue
		}

		var level model.ContributionLevelModel
		if err := o.db.First(&level, item.LevelId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLevelMismatch
			}
			return err
		}
		if level.ProjectId != projectId {
			return ErrLevelMismatch
		}
	}

	return nil
}

// attributeOrder 推导订单归属的项目及其贡献总额，
// 以第一条项目行为准（守卫保证不会出现多个项目）
func attributeOrder(items []model.OrderItemModel) (int64, int64) {
	var projectId, total int64
	for _, item := range items {
		if item.ProjectId == 0 {
			continue
		}
		if projectId == 0 {
			projectId = item.ProjectId
		}
		if item.ProjectId == projectId {
			total += item.Total
		}
	}

	return projectId, total
}
