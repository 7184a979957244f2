package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleShares 角色分润比例映射（角色编码 -> 百分比）
type RoleShares map[string]float64

// Scan 实现 sql.Scanner 接口
func (s *RoleShares) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

// Value 实现 driver.Valuer 接口
func (s RoleShares) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Total 返回所有比例之和
func (s RoleShares) Total() float64 {
	var total float64
	for _, pct := range s {
		total += pct
	}
	return total
}

// DistributionConfig 分润配置
// 同一时刻系统内最多只有一条启用中的配置
type DistributionConfig struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(100);not null" json:"name"`
	RoleShares RoleShares `gorm:"type:jsonb;not null" json:"role_shares"`
	TotalShare float64    `gorm:"type:decimal(5,2);not null;default:0" json:"total_share"`
	Status     int8       `gorm:"type:smallint;not null;default:0;index" json:"status"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (DistributionConfig) TableName() string {
	return "distribution_configs"
}

// BeforeCreate 创建前生成 UUID 主键
func (c *DistributionConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// DistributionConfigStatus 分润配置状态
const (
	DistributionConfigDisabled = 0 // 禁用
	DistributionConfigEnabled  = 1 // 启用
)

// ProfitRecord 分润总账记录
// 每个符合条件的已支付订单只生成一条；除状态与结算时间外不可变更
type ProfitRecord struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     string     `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	OrderNo     string     `gorm:"type:varchar(64);not null" json:"order_no"`
	EntityType  string     `gorm:"type:varchar(20);not null" json:"entity_type"`
	EntityID    string     `gorm:"type:uuid;index;not null" json:"entity_id"`
	UserID      string     `gorm:"type:uuid;index;not null" json:"user_id"`
	InviterID   *string    `gorm:"type:uuid" json:"inviter_id,omitempty"`
	TotalAmount float64    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status      int8       `gorm:"type:smallint;not null;default:0;index" json:"status"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Order   *Order               `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	User    *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Records []DistributionRecord `gorm:"foreignKey:ProfitRecordID" json:"records,omitempty"`
}

// TableName 表名
func (ProfitRecord) TableName() string {
	return "profit_records"
}

// BeforeCreate 创建前生成 UUID 主键
func (p *ProfitRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProfitStatus 分润记录状态
const (
	ProfitStatusFrozen    = 0 // 冻结中
	ProfitStatusSettled   = 1 // 已结算
	ProfitStatusCancelled = 2 // 已取消
)

// DistributionRecord 分润明细记录
// 每条对应配置中的一个角色在某笔订单下的分配
type DistributionRecord struct {
	ID                 string     `gorm:"type:uuid;primaryKey" json:"id"`
	ProfitRecordID     string     `gorm:"type:uuid;index;not null" json:"profit_record_id"`
	RoleCode           string     `gorm:"type:varchar(50);not null" json:"role_code"`
	RoleCategory       string     `gorm:"type:varchar(20);not null" json:"role_category"`
	BeneficiaryID      string     `gorm:"type:uuid;index;not null" json:"beneficiary_id"`
	BaseAmount         float64    `gorm:"type:decimal(12,2);not null" json:"base_amount"`
	DistributionAmount float64    `gorm:"type:decimal(12,2);not null" json:"distribution_amount"`
	SharePercentage    float64    `gorm:"type:decimal(5,2);not null" json:"share_percentage"`
	Status             int8       `gorm:"type:smallint;not null;default:0;index" json:"status"`
	SettledAt          *time.Time `json:"settled_at,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	ProfitRecord *ProfitRecord `gorm:"foreignKey:ProfitRecordID" json:"profit_record,omitempty"`
	Beneficiary  *User         `gorm:"foreignKey:BeneficiaryID" json:"beneficiary,omitempty"`
}

// TableName 表名
func (DistributionRecord) TableName() string {
	return "distribution_records"
}

// BeforeCreate 创建前生成 UUID 主键
func (d *DistributionRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// ProfitStatistics 分润统计
type ProfitStatistics struct {
	TotalRecords     int64   `json:"total_records"`
	TotalAmount      float64 `json:"total_amount"`
	FrozenCount      int64   `json:"frozen_count"`
	FrozenAmount     float64 `json:"frozen_amount"`
	SettledCount     int64   `json:"settled_count"`
	SettledAmount    float64 `json:"settled_amount"`
	CancelledCount   int64   `json:"cancelled_count"`
	DistributedTotal float64 `json:"distributed_total"`
}
