package model

import (
	"time"
)

// ContributeRecordModel 贡献记录，一个完成订单对应一条
type ContributeRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	OrderId   int64 `json:"order_id" gorm:"not null;uniqueIndex"`
	ProjectId int64 `json:"project_id" gorm:"not null;index"`
	Amount    int64 `json:"amount" gorm:"not null"`
}

// TableName 自定义表名
func (ContributeRecordModel) TableName() string {
	return "contribute_record"
}
