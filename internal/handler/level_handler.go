package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/wcf/internal/logic"
	"github.com/blues/wcf/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LevelHandler struct {
	levelLogic *logic.LevelLogic
}

func NewLevelHandler(db *gorm.DB) *LevelHandler {
	return &LevelHandler{
		levelLogic: logic.NewLevelLogic(db),
	}
}

type createLevelRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Amount      int64  `json:"amount" binding:"required,min=1"`
	ManageStock bool   `json:"manage_stock"`
	Stock       int64  `json:"stock"`
	NoReward    bool   `json:"no_reward"`
	SortOrder   int    `json:"sort_order"`
}

// CreateLevel 为项目创建支持档位
func (h *LevelHandler) CreateLevel(c *gin.Context) {
	projectId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req createLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	level := model.ContributionLevelModel{
		ProjectId:   projectId,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		ManageStock: req.ManageStock,
		Stock:       req.Stock,
		NoReward:    req.NoReward,
		SortOrder:   req.SortOrder,
	}

	if err := h.levelLogic.CreateLevel(&level); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "支持档位创建成功",
		"level":   level,
	})
}

// GetProjectLevels 获取项目的支持档位列表
func (h *LevelHandler) GetProjectLevels(c *gin.Context) {
	projectId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	levels, err := h.levelLogic.GetProjectLevels(projectId)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"levels": levels})
}

// UpdateLevel 更新支持档位
func (h *LevelHandler) UpdateLevel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的档位ID")
		return
	}

	var params logic.UpdateLevelParams
	if err := c.ShouldBindJSON(&params); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.levelLogic.UpdateLevel(id, params); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "支持档位更新成功"})
}

// DeleteLevel 删除支持档位
func (h *LevelHandler) DeleteLevel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的档位ID")
		return
	}

	if err := h.levelLogic.DeleteLevel(id); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "支持档位已删除"})
}
