package logic

import (
	"errors"

	"github.com/blues/wcf/internal/model"
	"gorm.io/gorm"
)

// ErrLevelNotFound 档位不存在
var ErrLevelNotFound = errors.New("支持档位不存在")

// LevelLogic 支持档位业务逻辑
type LevelLogic struct {
	db *gorm.DB
}

// NewLevelLogic 创建支持档位业务逻辑
func NewLevelLogic(db *gorm.DB) *LevelLogic {
	return &LevelLogic{db: db}
}

// UpdateLevelParams 可更新的档位字段，nil 表示不更新
type UpdateLevelParams struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Amount      *int64  `json:"amount"`
	ManageStock *bool   `json:"manage_stock"`
	Stock       *int64  `json:"stock"`
	NoReward    *bool   `json:"no_reward"`
	SortOrder   *int    `json:"sort_order"`
}

// CreateLevel 创建支持档位
func (l *LevelLogic) CreateLevel(level *model.ContributionLevelModel) error {
	if err := l.validateLevel(level); err != nil {
		return err
	}

	var project model.ProjectModel
	if err := l.db.First(&project, level.ProjectId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 未指定顺序时排到最后
	if level.SortOrder == 0 {
		var maxOrder int
		if err := tx.Model(&model.ContributionLevelModel{}).
			Where("project_id = ?", level.ProjectId).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&maxOrder).Error; err != nil {
			tx.Rollback()
			return err
		}
		level.SortOrder = maxOrder + 1
	}

	if err := tx.Create(level).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := l.recomputePriceRange(tx, level.ProjectId); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// GetProjectLevels 获取项目的支持档位，按展示顺序排序
func (l *LevelLogic) GetProjectLevels(projectId int64) ([]model.ContributionLevelModel, error) {
	var levels []model.ContributionLevelModel
	if err := l.db.Where("project_id = ?", projectId).
		Order("sort_order ASC").
		Find(&levels).Error; err != nil {
		return nil, err
	}

	return levels, nil
}

// UpdateLevel 更新支持档位
func (l *LevelLogic) UpdateLevel(id int64, params UpdateLevelParams) error {
	var level model.ContributionLevelModel
	if err := l.db.First(&level, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLevelNotFound
		}
		return err
	}

	updates := make(map[string]interface{})

	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.Amount != nil {
		if *params.Amount <= 0 {
			return errors.New("档位金额必须大于0")
		}
		updates["amount"] = *params.Amount
	}
	if params.ManageStock != nil {
		updates["manage_stock"] = *params.ManageStock
	}
	if params.Stock != nil {
		updates["stock"] = *params.Stock
	}
	if params.NoReward != nil {
		updates["no_reward"] = *params.NoReward
	}
	if params.SortOrder != nil {
		updates["sort_order"] = *params.SortOrder
	}

	if len(updates) == 0 {
		return errors.New("没有要更新的字段")
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&level).Updates(updates).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := l.recomputePriceRange(tx, level.ProjectId); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// DeleteLevel 删除支持档位
func (l *LevelLogic) DeleteLevel(id int64) error {
	var level model.ContributionLevelModel
	if err := l.db.First(&level, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLevelNotFound
		}
		return err
	}

	tx := l.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&model.ContributionLevelModel{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := l.recomputePriceRange(tx, level.ProjectId); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// recomputePriceRange 根据现有档位重新计算项目的价格区间
func (l *LevelLogic) recomputePriceRange(tx *gorm.DB, projectId int64) error {
	var bounds struct {
		MinAmount int64
		MaxAmount int64
	}

	if err := tx.Model(&model.ContributionLevelModel{}).
		Where("project_id = ?", projectId).
		Select("COALESCE(MIN(amount), 0) AS min_amount, COALESCE(MAX(amount), 0) AS max_amount").
		Scan(&bounds).Error; err != nil {
		return err
	}

	return tx.Model(&model.ProjectModel{}).
		Where("id = ?", projectId).
		Updates(map[string]interface{}{
			"min_amount": bounds.MinAmount,
			"max_amount": bounds.MaxAmount,
		}).Error
}

// validateLevel 验证档位数据
func (l *LevelLogic) validateLevel(level *model.ContributionLevelModel) error {
	if level.ProjectId == 0 {
		return errors.New("项目ID不能为空")
	}
	if level.Title == "" {
		return errors.New("档位标题不能为空")
	}
	if level.Amount <= 0 {
		return errors.New("档位金额必须大于0")
	}
	if level.ManageStock && level.Stock < 0 {
		return errors.New("库存数量不能为负数")
	}
	return nil
}
