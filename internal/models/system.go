package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SystemConfig 系统配置
type SystemConfig struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Group       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_system_configs_group_key" json:"group"`
	Key         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_system_configs_group_key" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Type        string    `gorm:"type:varchar(20);not null;default:'string'" json:"type"`
	Description *string   `gorm:"type:varchar(255)" json:"description,omitempty"`
	IsPublic    bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (SystemConfig) TableName() string {
	return "system_configs"
}

// BeforeCreate 创建前生成 UUID 主键
func (c *SystemConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ConfigValueType 配置值类型
const (
	ConfigTypeString  = "string"  // 字符串
	ConfigTypeNumber  = "number"  // 数字
	ConfigTypeBoolean = "boolean" // 布尔
	ConfigTypeJSON    = "json"    // JSON
)

// ConfigGroup 配置分组
const (
	ConfigGroupSystem       = "system"       // 系统设置
	ConfigGroupDistribution = "distribution" // 分润设置
)

// 分润分组下的配置键
const (
	ConfigKeyRefundDeadlineHours = "activity_refund_deadline_hours" // 活动退款截止提前小时数
	ConfigKeyAutoSettleHours     = "activity_auto_settle_hours"     // 非活动订单自动结算小时数
)

// 分润配置默认值
const (
	DefaultRefundDeadlineHours = 2.0  // 默认活动开始前 2 小时停止退款
	DefaultAutoSettleHours     = 24.0 // 默认创建 24 小时后自动结算
)

// Notification 通知消息
type Notification struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    *string    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type      string     `gorm:"type:varchar(20);not null" json:"type"`
	Title     string     `gorm:"type:varchar(100);not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	IsRead    bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 表名
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate 创建前生成 UUID 主键
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NotificationType 通知类型
const (
	NotificationTypeSystem   = "system"   // 系统通知
	NotificationTypeOrder    = "order"    // 订单通知
	NotificationTypeActivity = "activity" // 活动通知
)
