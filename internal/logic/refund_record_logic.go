package logic

import (
	"github.com/blues/wcf/internal/model"
	"gorm.io/gorm"
)

// RefundRecordLogic 退款记录业务逻辑
type RefundRecordLogic struct {
	db *gorm.DB
}

// NewRefundRecordLogic 创建退款记录业务逻辑
func NewRefundRecordLogic(db *gorm.DB) *RefundRecordLogic {
	return &RefundRecordLogic{db: db}
}

// GetProjectRefunds 获取项目退款记录
func (r *RefundRecordLogic) GetProjectRefunds(projectId int64, page, pageSize int) ([]model.RefundRecordModel, int64, error) {
	var refunds []model.RefundRecordModel
	var total int64

	if err := r.db.Model(&model.RefundRecordModel{}).
		Where("project_id = ?", projectId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.Where("project_id = ?", projectId).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&refunds).Error; err != nil {
		return nil, 0, err
	}

	return refunds, total, nil
}

// GetPendingRefunds 获取待处理退款记录
func (r *RefundRecordLogic) GetPendingRefunds() ([]model.RefundRecordModel, error) {
	var refunds []model.RefundRecordModel
	if err := r.db.Where("status = ?", model.RefundStatusPending).
		Order("id ASC").
		Find(&refunds).Error; err != nil {
		return nil, err
	}

	return refunds, nil
}

// ProcessRefund 处理单条退款：订单转为已退款，记录转为成功
func (r *RefundRecordLogic) ProcessRefund(record *model.RefundRecordModel) error {
	tx := r.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	res := tx.Model(&model.OrderModel{}).
		Where("id = ? AND status <> ?", record.OrderId, model.OrderStatusRefunded).
		Update("status", model.OrderStatusRefunded)
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}

	if err := tx.Model(record).Update("status", model.RefundStatusSuccess).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// MarkRefundFailed 标记退款失败
func (r *RefundRecordLogic) MarkRefundFailed(record *model.RefundRecordModel) error {
	return r.db.Model(record).Update("status", model.RefundStatusFailed).Error
}
