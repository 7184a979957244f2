package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity 活动模型
type Activity struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Cover     *string   `gorm:"type:varchar(255)" json:"cover,omitempty"`
	Content   string    `gorm:"type:text;not null;default:''" json:"content"`
	Address   *string   `gorm:"type:varchar(255)" json:"address,omitempty"`
	Price     float64   `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Capacity  int       `gorm:"not null;default:0" json:"capacity"`
	Enrolled  int       `gorm:"not null;default:0" json:"enrolled"`
	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	Status    int8      `gorm:"type:smallint;not null;default:0" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Activity) TableName() string {
	return "activities"
}

// BeforeCreate 创建前生成 UUID 主键
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ActivityStatus 活动状态
const (
	ActivityStatusDraft     = 0 // 草稿
	ActivityStatusPublished = 1 // 已发布
	ActivityStatusClosed    = 2 // 已关闭
)

// RefundDeadline 返回活动的退款截止时间
// 开始前 deadlineHours 小时停止退款
func (a *Activity) RefundDeadline(deadlineHours float64) time.Time {
	return a.StartTime.Add(-time.Duration(deadlineHours * float64(time.Hour)))
}

// MembershipCard 会员卡模型
type MembershipCard struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Price        float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	DurationDays int       `gorm:"not null;default:30" json:"duration_days"`
	Description  *string   `gorm:"type:varchar(500)" json:"description,omitempty"`
	Status       int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (MembershipCard) TableName() string {
	return "membership_cards"
}

// BeforeCreate 创建前生成 UUID 主键
func (c *MembershipCard) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// MembershipCardStatus 会员卡状态
const (
	MembershipCardStatusOffShelf = 0 // 已下架
	MembershipCardStatusOnSale   = 1 // 在售
)
