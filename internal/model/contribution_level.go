package model

import (
	"time"
)

// ContributionLevelModel 支持档位
type ContributionLevelModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId   int64  `json:"project_id" gorm:"not null;index;uniqueIndex:idx_level_project_sort"`
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	Amount      int64  `json:"amount" gorm:"not null"`

	// 库存策略：manage_stock 为 false 时不限量
	ManageStock bool  `json:"manage_stock" gorm:"default:false"`
	Stock       int64 `json:"stock" gorm:"default:0"`

	// 无回报档位（纯捐赠）
	NoReward bool `json:"no_reward" gorm:"default:false"`

	// 展示顺序，项目内唯一
	SortOrder int `json:"sort_order" gorm:"not null;uniqueIndex:idx_level_project_sort"`

	// 项目删除时级联删除档位
	Project *ProjectModel `json:"-" gorm:"foreignKey:ProjectId;constraint:OnDelete:CASCADE"`
}

// TableName 自定义表名
func (ContributionLevelModel) TableName() string {
	return "contribution_level"
}
