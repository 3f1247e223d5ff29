package model

import (
	"time"
)

// ProjectModel 众筹项目模型
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`

	// 众筹信息，金额单位为最小货币单位
	GoalAmount       int64 `json:"goal_amount" gorm:"default:0"` // 0 表示尚未配置
	CurrentAmount    int64 `json:"current_amount" gorm:"default:0"`
	ContributorCount int64 `json:"contributor_count" gorm:"default:0"`

	// 支持档位的价格区间，由档位保存时重新计算
	MinAmount int64 `json:"min_amount" gorm:"default:0"`
	MaxAmount int64 `json:"max_amount" gorm:"default:0"`

	// 结束日期，按天存储
	EndDate *time.Time `json:"end_date"`

	// 状态
	Status ProjectStatus `json:"status" gorm:"default:'open'"`
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusOpen      ProjectStatus = "open"      // 进行中
	ProjectStatusComplete  ProjectStatus = "complete"  // 达成目标
	ProjectStatusCancelled ProjectStatus = "cancelled" // 未达成已取消
)

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "cf_project"
}

// IsSet 判断项目是否已配置目标金额和结束日期
func (p *ProjectModel) IsSet() bool {
	return p.GoalAmount > 0 && p.EndDate != nil
}

// IsActive 判断项目是否仍可接受支持（结束日期当天含在内）
func (p *ProjectModel) IsActive(today time.Time) bool {
	if !p.IsSet() || p.Status != ProjectStatusOpen {
		return false
	}
	return !DateOnly(today).After(DateOnly(*p.EndDate))
}

// DateOnly 截断到天
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
