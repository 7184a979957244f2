// Package models 定义数据模型
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"type:varchar(100);not null" json:"-"`
	Nickname  string     `gorm:"type:varchar(50);not null;default:''" json:"nickname"`
	Phone     *string    `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	Email     *string    `gorm:"type:varchar(100)" json:"email,omitempty"`
	Avatar    *string    `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	InviterID *string    `gorm:"type:uuid;index" json:"inviter_id,omitempty"`
	Status    int8       `gorm:"type:smallint;not null;default:1" json:"status"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Inviter *User  `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
	Roles   []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前生成 UUID 主键
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserStatus 用户状态
const (
	UserStatusDisabled = 0 // 禁用
	UserStatusActive   = 1 // 正常
)

// Role 角色模型
type Role struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Category  string    `gorm:"type:varchar(20);not null;default:'pool'" json:"category"`
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	Status    int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	Remark    *string   `gorm:"type:varchar(255)" json:"remark,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Menus []Menu `gorm:"many2many:role_menus" json:"menus,omitempty"`
	Users []User `gorm:"many2many:user_roles" json:"users,omitempty"`
}

// TableName 表名
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate 创建前生成 UUID 主键
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RoleStatus 角色状态
const (
	RoleStatusDisabled = 0 // 禁用
	RoleStatusActive   = 1 // 正常
)

// RoleCategory 角色类别，决定分润受益人的解析方式
const (
	RoleCategoryReferral = "referral" // 推荐类角色，受益人为订单邀请人
	RoleCategoryPool     = "pool"     // 岗位类角色，受益人为持有该角色的启用用户
)

// Menu 菜单模型
type Menu struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ParentID  *string   `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Path      *string   `gorm:"type:varchar(100)" json:"path,omitempty"`
	Component *string   `gorm:"type:varchar(100)" json:"component,omitempty"`
	Icon      *string   `gorm:"type:varchar(50)" json:"icon,omitempty"`
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	Hidden    bool      `gorm:"not null;default:false" json:"hidden"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Children []Menu `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName 表名
func (Menu) TableName() string {
	return "menus"
}

// BeforeCreate 创建前生成 UUID 主键
func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
