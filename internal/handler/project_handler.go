package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blues/wcf/internal/logic"
	"github.com/blues/wcf/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectLogic    *logic.ProjectLogic
	contributeLogic *logic.ContributeLogic
	refundLogic     *logic.RefundRecordLogic
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectLogic:    logic.NewProjectLogic(db),
		contributeLogic: logic.NewContributeLogic(db),
		refundLogic:     logic.NewRefundRecordLogic(db),
	}
}

type createProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	GoalAmount  int64  `json:"goal_amount"`
	EndDate     string `json:"end_date"` // YYYY-MM-DD
}

type updateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
	GoalAmount  *int64  `json:"goal_amount"`
	EndDate     *string `json:"end_date"` // YYYY-MM-DD
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project := model.ProjectModel{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		GoalAmount:  req.GoalAmount,
	}

	if req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "无效的结束日期格式")
			return
		}
		project.EndDate = &endDate
	}

	if err := h.projectLogic.CreateProject(&project); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "项目创建成功",
		"project": project,
	})
}

// GetProjects 获取项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	status := c.Query("status")
	category := c.Query("category")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.projectLogic.GetProjects(status, category, page, pageSize)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProject 获取单个项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	project, err := h.projectLogic.GetProject(id)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject 更新项目，目标金额与结束日期只允许设置一次
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	params := logic.UpdateProjectParams{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		GoalAmount:  req.GoalAmount,
	}

	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "无效的结束日期格式")
			return
		}
		params.EndDate = &endDate
	}

	if err := h.projectLogic.UpdateProject(id, params); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "项目更新成功"})
}

// DeleteProject 删除项目及其支持档位
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	if err := h.projectLogic.DeleteProject(id); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "项目已删除"})
}

// GetProjectStats 获取项目统计信息
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	stats, err := h.projectLogic.GetProjectStats(id, time.Now())
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GetProjectContributions 获取项目贡献记录
func (h *ProjectHandler) GetProjectContributions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	contributions, total, err := h.contributeLogic.GetProjectContributeRecords(id, page, pageSize)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contributions": contributions,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

// GetProjectContributors 获取项目公开支持者列表
func (h *ProjectHandler) GetProjectContributors(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	contributors, anonymousCount, err := h.contributeLogic.GetContributors(id)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contributors":    contributors,
		"anonymous_count": anonymousCount,
	})
}

// ExpireProject 手动触发项目过期判定
func (h *ProjectHandler) ExpireProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	orderIds, err := h.projectLogic.EvaluateExpiry(id, time.Now())
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refund_orders": orderIds,
	})
}

// GetProjectRefunds 获取项目退款记录
func (h *ProjectHandler) GetProjectRefunds(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	refunds, total, err := h.refundLogic.GetProjectRefunds(id, page, pageSize)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refunds":   refunds,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
