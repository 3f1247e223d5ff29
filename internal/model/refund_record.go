package model

import (
	"time"
)

// RefundReasonGoalNotMet 项目未达成时的固定退款原因
const RefundReasonGoalNotMet = "CF project goal not met, charge will be refunded."

// RefundRecordModel 退款记录
type RefundRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64        `json:"project_id" gorm:"not null;index"`
	OrderId   int64        `json:"order_id" gorm:"not null;uniqueIndex"`
	Amount    int64        `json:"amount" gorm:"not null"`
	Reason    string       `json:"reason" gorm:"type:text"`
	Status    RefundStatus `json:"status" gorm:"default:'pending'"`
}

// RefundStatus 退款状态
type RefundStatus string

const (
	RefundStatusPending RefundStatus = "pending" // 待处理
	RefundStatusSuccess RefundStatus = "success" // 成功
	RefundStatusFailed  RefundStatus = "failed"  // 失败
)

// TableName 自定义表名
func (RefundRecordModel) TableName() string {
	return "refund_record"
}
