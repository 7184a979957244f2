package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order 订单模型
type Order struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNo      string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	UserID       string     `gorm:"type:uuid;index;not null" json:"user_id"`
	InviterID    *string    `gorm:"type:uuid" json:"inviter_id,omitempty"`
	EntityType   string     `gorm:"type:varchar(20);not null" json:"entity_type"`
	EntityID     string     `gorm:"type:uuid;index;not null" json:"entity_id"`
	Amount       float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Remark       *string    `gorm:"type:varchar(255)" json:"remark,omitempty"`
	Status       int8       `gorm:"type:smallint;not null;default:0" json:"status"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`
	CancelReason *string    `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User    *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Inviter *User `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
}

// TableName 表名
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate 创建前生成 UUID 主键
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderEntityType 订单关联的收入实体类型
const (
	OrderEntityActivity       = "activity"        // 活动报名
	OrderEntityMembershipCard = "membership_card" // 会员卡购买
)

// OrderStatus 订单状态
const (
	OrderStatusPending   = 0 // 待支付
	OrderStatusPaid      = 1 // 已支付
	OrderStatusCompleted = 2 // 已完成
	OrderStatusCancelled = 3 // 已取消
	OrderStatusRefunded  = 4 // 已退款
)
