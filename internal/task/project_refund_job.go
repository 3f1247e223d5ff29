package task

import (
	"time"

	"github.com/blues/wcf/internal/config"
	"github.com/blues/wcf/internal/logger"
	"github.com/blues/wcf/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ProjectRefundJob 退款处理任务：
// 把待处理退款记录对应的订单转为已退款
type ProjectRefundJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewProjectRefundJob 创建退款处理任务
func NewProjectRefundJob(db *gorm.DB, cfg *config.Config) *ProjectRefundJob {
	return &ProjectRefundJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *ProjectRefundJob) GetName() string {
	return "project_refund_processor"
}

// GetSchedule 获取调度配置
func (j *ProjectRefundJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *ProjectRefundJob) Execute() {
	logger.Info("Starting project refund task")

	refundLogic := logic.NewRefundRecordLogic(j.db)

	records, err := refundLogic.GetPendingRefunds()
	if err != nil {
		logger.Error("Failed to fetch pending refund records: %v", err)
		return
	}

	refundedCount := 0

	for i := range records {
		record := &records[i]

		if err := refundLogic.ProcessRefund(record); err != nil {
			logger.Error("Failed to process refund for record %d: %v", record.Id, err)
			if err := refundLogic.MarkRefundFailed(record); err != nil {
				logger.Error("Failed to mark refund record %d failed: %v", record.Id, err)
			}
			continue
		}

		logger.Info("Successfully refunded order %d, amount: %d", record.OrderId, record.Amount)
		refundedCount++
	}

	logger.Info("Project refund task completed. Refunded %d records", refundedCount)
}
