package handler

import (
	"errors"
	"net/http"

	"github.com/blues/wcf/internal/logic"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// handleLogicError 按业务错误类型映射HTTP状态码
func handleLogicError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logic.ErrProjectNotFound),
		errors.Is(err, logic.ErrOrderNotFound),
		errors.Is(err, logic.ErrLevelNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, logic.ErrGoalImmutable),
		errors.Is(err, logic.ErrEndDateImmutable),
		errors.Is(err, logic.ErrOrderNotCompletable),
		errors.Is(err, logic.ErrOrderAlreadyRecorded):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, logic.ErrMixedProjects),
		errors.Is(err, logic.ErrMixedCart),
		errors.Is(err, logic.ErrProjectNotSet),
		errors.Is(err, logic.ErrProjectNotOpen),
		errors.Is(err, logic.ErrProjectOver),
		errors.Is(err, logic.ErrInvalidAmount),
		errors.Is(err, logic.ErrLevelMismatch):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
