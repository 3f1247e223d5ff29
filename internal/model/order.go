package model

import (
	"time"
)

// OrderModel 商城订单
type OrderModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderNumber      string `json:"order_number" gorm:"uniqueIndex"`
	BillingFirstName string `json:"billing_first_name"`
	BillingLastName  string `json:"billing_last_name"`

	// 订单归属的众筹项目，0 表示普通订单
	ProjectId         int64 `json:"project_id" gorm:"index;default:0"`
	ContributionTotal int64 `json:"contribution_total" gorm:"default:0"`

	// 结账时的公开意愿
	PublishDonator bool `json:"publish_donator" gorm:"default:false"`
	PublishAmount  bool `json:"publish_amount" gorm:"default:false"`

	// 状态
	Status OrderStatus `json:"status" gorm:"default:'pending'"`
}

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // 待支付
	OrderStatusProcessing OrderStatus = "processing" // 已支付待确认
	OrderStatusCompleted  OrderStatus = "completed"  // 已完成
	OrderStatusRefunded   OrderStatus = "refunded"   // 已退款
	OrderStatusCancelled  OrderStatus = "cancelled"  // 已取消
)

// TableName 自定义表名
func (OrderModel) TableName() string {
	return "shop_order"
}

// OrderItemModel 订单行项目
type OrderItemModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	OrderId int64 `json:"order_id" gorm:"not null;index"`

	// 行项目归属的众筹项目，0 表示普通商品
	ProjectId int64  `json:"project_id" gorm:"default:0"`
	LevelId   int64  `json:"level_id" gorm:"default:0"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" gorm:"default:1"`
	Total     int64  `json:"total" gorm:"not null"`
}

// TableName 自定义表名
func (OrderItemModel) TableName() string {
	return "shop_order_item"
}
