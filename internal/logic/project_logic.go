package logic

import (
	"errors"
	"math"
	"time"

	"github.com/blues/wcf/internal/model"
	"gorm.io/gorm"
)

// 项目相关业务校验错误
var (
	ErrProjectNotFound  = errors.New("项目不存在")
	ErrProjectNotSet    = errors.New("项目尚未配置目标金额或结束日期")
	ErrProjectNotOpen   = errors.New("项目不在进行中，无法接受贡献")
	ErrProjectOver      = errors.New("项目已结束，无法继续支持")
	ErrGoalImmutable    = errors.New("目标金额设置后不可修改")
	ErrEndDateImmutable = errors.New("结束日期设置后不可修改")
)

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// UpdateProjectParams 可更新的项目字段，nil 表示不更新
type UpdateProjectParams struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	Category    *string    `json:"category"`
	GoalAmount  *int64     `json:"goal_amount"`
	EndDate     *time.Time `json:"end_date"`
}

// CreateProject 创建项目
func (p *ProjectLogic) CreateProject(project *model.ProjectModel) error {
	if err := p.validateProject(project); err != nil {
		return err
	}

	// 设置默认值
	project.Status = model.ProjectStatusOpen
	project.CurrentAmount = 0
	project.ContributorCount = 0
	if project.EndDate != nil {
		d := model.DateOnly(*project.EndDate)
		project.EndDate = &d
	}

	if err := p.db.Create(project).Error; err != nil {
		return err
	}

	return nil
}

// GetProjects 获取项目列表
func (p *ProjectLogic) GetProjects(status, category string, page, pageSize int) ([]model.ProjectModel, int64, error) {
	var projects []model.ProjectModel
	var total int64

	query := p.db.Model(&model.ProjectModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// GetProject 获取项目详情
func (p *ProjectLogic) GetProject(id int64) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := p.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	return &project, nil
}

// UpdateProject 更新项目，目标金额和结束日期只允许设置一次
func (p *ProjectLogic) UpdateProject(id int64, params UpdateProjectParams) error {
	project, err := p.GetProject(id)
	if err != nil {
		return err
	}

	updates := make(map[string]interface{})

	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.ImageURL != nil {
		updates["image_url"] = *params.ImageURL
	}
	if params.Category != nil {
		updates["category"] = *params.Category
	}

	if params.GoalAmount != nil {
		if project.GoalAmount > 0 && *params.GoalAmount != project.GoalAmount {
			return ErrGoalImmutable
		}
		if *params.GoalAmount <= 0 {
			return errors.New("目标金额必须大于0")
		}
		updates["goal_amount"] = *params.GoalAmount
	}

	if params.EndDate != nil {
		newDate := model.DateOnly(*params.EndDate)
		if project.EndDate != nil && !newDate.Equal(model.DateOnly(*project.EndDate)) {
			return ErrEndDateImmutable
		}
		updates["end_date"] = newDate
	}

	if len(updates) == 0 {
		return errors.New("没有要更新的字段")
	}

	return p.db.Model(project).Updates(updates).Error
}

// DeleteProject 删除项目并级联删除其支持档位
func (p *ProjectLogic) DeleteProject(id int64) error {
	if _, err := p.GetProject(id); err != nil {
		return err
	}

	tx := p.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 外键已声明级联，这里显式删除以兼容未建约束的库
	if err := tx.Where("project_id = ?", id).Delete(&model.ContributionLevelModel{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&model.ProjectModel{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// EvaluateExpiry 判定项目是否过期，过期则取消并生成待退款记录，
// 返回受影响的订单ID列表。对未配置或已终结的项目是无副作用的空操作。
func (p *ProjectLogic) EvaluateExpiry(id int64, today time.Time) ([]int64, error) {
	project, err := p.GetProject(id)
	if err != nil {
		return nil, err
	}

	if !project.IsSet() || project.Status != model.ProjectStatusOpen {
		return nil, nil
	}

	cutoff := model.DateOnly(today)
	if !cutoff.After(model.DateOnly(*project.EndDate)) {
		return nil, nil
	}

	tx := p.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 条件更新作为与贡献记录之间的串行化点，
	// 只有真正完成 open -> cancelled 转移的一次才继续退款流程
	res := tx.Model(&model.ProjectModel{}).
		Where("id = ? AND status = ? AND end_date < ?", id, model.ProjectStatusOpen, cutoff).
		Update("status", model.ProjectStatusCancelled)
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// 并发中已完成或已取消
		tx.Rollback()
		return nil, nil
	}

	var records []model.ContributeRecordModel
	if err := tx.Where("project_id = ?", id).Order("id ASC").Find(&records).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	orderIds := make([]int64, 0, len(records))
	for _, record := range records {
		refund := model.RefundRecordModel{
			ProjectId: id,
			OrderId:   record.OrderId,
			Amount:    record.Amount,
			Reason:    model.RefundReasonGoalNotMet,
			Status:    model.RefundStatusPending,
		}
		if err := tx.Create(&refund).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		orderIds = append(orderIds, record.OrderId)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return orderIds, nil
}

// GetExpiredOpenProjects 获取所有已过结束日期但仍在进行中的项目
func (p *ProjectLogic) GetExpiredOpenProjects(today time.Time) ([]model.ProjectModel, error) {
	var projects []model.ProjectModel
	err := p.db.
		Where("status = ? AND goal_amount > 0 AND end_date IS NOT NULL AND end_date < ?",
			model.ProjectStatusOpen, model.DateOnly(today)).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// GetProjectStats 获取项目统计信息
func (p *ProjectLogic) GetProjectStats(id int64, today time.Time) (map[string]interface{}, error) {
	project, err := p.GetProject(id)
	if err != nil {
		return nil, err
	}

	var levelCount int64
	if err := p.db.Model(&model.ContributionLevelModel{}).
		Where("project_id = ?", id).
		Count(&levelCount).Error; err != nil {
		return nil, err
	}

	var contributionCount int64
	if err := p.db.Model(&model.ContributeRecordModel{}).
		Where("project_id = ?", id).
		Count(&contributionCount).Error; err != nil {
		return nil, err
	}

	daysLeft := 0
	if project.EndDate != nil {
		daysLeft = DaysRemaining(*project.EndDate, today)
	}

	return map[string]interface{}{
		"project_id":         project.Id,
		"goal_amount":        project.GoalAmount,
		"current_amount":     project.CurrentAmount,
		"progress_percent":   ProgressPercent(project.CurrentAmount, project.GoalAmount),
		"days_left":          daysLeft,
		"contributor_count":  project.ContributorCount,
		"contribution_count": contributionCount,
		"level_count":        levelCount,
		"status":             string(project.Status),
		"is_set":             project.IsSet(),
	}, nil
}

// ProgressPercent 计算进度百分比，显示用，始终收敛到 [0, 100]
func ProgressPercent(current, goal int64) int {
	if goal <= 0 {
		return 0
	}

	percent := int(math.Round(float64(current) / float64(goal) * 100))
	if percent > 100 {
		percent = 100
	}

	return percent
}

// DaysRemaining 计算剩余天数，结束日期当天算作还剩1天
func DaysRemaining(endDate, today time.Time) int {
	diff := model.DateOnly(endDate).Sub(model.DateOnly(today))

	days := int(diff.Hours()/24) + 1
	if days < 0 {
		days = 0
	}

	return days
}

// validateProject 验证项目数据
func (p *ProjectLogic) validateProject(project *model.ProjectModel) error {
	if project.Title == "" {
		return errors.New("项目标题不能为空")
	}
	if project.GoalAmount < 0 {
		return errors.New("目标金额不能为负数")
	}
	return nil
}
