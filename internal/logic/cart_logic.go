package logic

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// 购物车组成校验错误
var (
	ErrMixedProjects = errors.New("不能混合多个项目的支持")
	ErrMixedCart     = errors.New("不能混合普通商品与项目支持")
)

// CartState 购物车当前组成：归属的项目（0 表示无）以及是否含普通商品
type CartState struct {
	ProjectId        int64 `json:"project_id"`
	HasStandardItems bool  `json:"has_standard_items"`
}

// CartLogic 购物车业务逻辑
type CartLogic struct {
	db *gorm.DB
}

// NewCartLogic 创建购物车业务逻辑
func NewCartLogic(db *gorm.DB) *CartLogic {
	return &CartLogic{db: db}
}

// ValidateCartAddition 加购守卫：一个购物车只能归属一个项目，
// 且项目支持不能与普通商品混合。纯校验，不修改任何状态。
func ValidateCartAddition(cart CartState, candidateProjectId int64) error {
	if candidateProjectId == 0 {
		// 普通商品：购物车里不能已有项目支持
		if cart.ProjectId != 0 {
			return ErrMixedCart
		}
		return nil
	}

	// 项目支持：购物车里不能已有普通商品或其他项目
	if cart.HasStandardItems {
		return ErrMixedCart
	}
	if cart.ProjectId != 0 && cart.ProjectId != candidateProjectId {
		return ErrMixedProjects
	}

	return nil
}

// CheckContributionAllowed 校验项目当前是否可接受支持
func (c *CartLogic) CheckContributionAllowed(projectId int64, today time.Time) error {
	projectLogic := NewProjectLogic(c.db)

	project, err := projectLogic.GetProject(projectId)
	if err != nil {
		return err
	}

	if !project.IsSet() {
		return ErrProjectNotSet
	}
	if !project.IsActive(today) {
		return ErrProjectOver
	}

	return nil
}
