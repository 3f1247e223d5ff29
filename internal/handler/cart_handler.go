package handler

import (
	"net/http"
	"time"

	"github.com/blues/wcf/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartHandler struct {
	cartLogic *logic.CartLogic
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{
		cartLogic: logic.NewCartLogic(db),
	}
}

type validateCartRequest struct {
	Cart               logic.CartState `json:"cart"`
	CandidateProjectId int64           `json:"candidate_project_id"`
}

// ValidateAddition 校验能否把商品加入当前购物车
func (h *CartHandler) ValidateAddition(c *gin.Context) {
	var req validateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := logic.ValidateCartAddition(req.Cart, req.CandidateProjectId); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid":  false,
			"reason": err.Error(),
		})
		return
	}

	// 项目支持还要求项目仍在进行中
	if req.CandidateProjectId > 0 {
		if err := h.cartLogic.CheckContributionAllowed(req.CandidateProjectId, time.Now()); err != nil {
			c.JSON(http.StatusOK, gin.H{
				"valid":  false,
				"reason": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}
