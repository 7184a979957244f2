// Package distribution 分润服务
package distribution

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// 跳过原因
const (
	SkipReasonZeroShare       = "zero_share"        // 比例为零
	SkipReasonNoInviter       = "no_inviter"        // 订单没有邀请人
	SkipReasonInviterDisabled = "inviter_disabled"  // 邀请人已禁用
	SkipReasonNoRoleHolder    = "no_role_holder"    // 没有启用的角色持有者
	SkipReasonRoleNotFound    = "role_not_found"    // 角色不存在
	SkipReasonRoleDisabled    = "role_disabled"     // 角色已禁用
)

// ResolveInput 受益人解析入参
type ResolveInput struct {
	RoleCode  string
	InviterID *string // 订单邀请人，推荐类角色使用
}

// BeneficiaryResolver 受益人解析器
// 按角色类别决定分润受益人；无法解析时返回跳过原因而非错误
type BeneficiaryResolver interface {
	Resolve(ctx context.Context, input ResolveInput) (beneficiaryID, category, skipReason string, err error)
}

// StrategyResolver 按角色类别路由的受益人解析器
type StrategyResolver struct {
	userRepo *repository.UserRepository
	roleRepo *repository.RoleRepository
}

// NewStrategyResolver 创建受益人解析器
func NewStrategyResolver(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository) *StrategyResolver {
	return &StrategyResolver{userRepo: userRepo, roleRepo: roleRepo}
}

// Resolve 解析角色对应的受益人
func (r *StrategyResolver) Resolve(ctx context.Context, input ResolveInput) (string, string, string, error) {
	role, err := r.roleRepo.GetByCode(ctx, input.RoleCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", SkipReasonRoleNotFound, nil
		}
		return "", "", "", err
	}

	if role.Status != models.RoleStatusActive {
		return "", role.Category, SkipReasonRoleDisabled, nil
	}

	switch role.Category {
	case models.RoleCategoryReferral:
		return r.resolveReferral(ctx, role.Category, input.InviterID)
	default:
		return r.resolvePool(ctx, role.Category, input.RoleCode)
	}
}

// resolveReferral 推荐类角色：受益人为订单邀请人
func (r *StrategyResolver) resolveReferral(ctx context.Context, category string, inviterID *string) (string, string, string, error) {
	if inviterID == nil || *inviterID == "" {
		return "", category, SkipReasonNoInviter, nil
	}

	inviter, err := r.userRepo.GetByID(ctx, *inviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", category, SkipReasonNoInviter, nil
		}
		return "", category, "", err
	}

	if inviter.Status != models.UserStatusActive {
		return "", category, SkipReasonInviterDisabled, nil
	}

	return inviter.ID, category, "", nil
}

// resolvePool 岗位类角色：受益人为最早注册的启用角色持有者
func (r *StrategyResolver) resolvePool(ctx context.Context, category, roleCode string) (string, string, string, error) {
	holder, err := r.userRepo.GetEarliestActiveByRoleCode(ctx, roleCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", category, SkipReasonNoRoleHolder, nil
		}
		return "", category, "", err
	}
	return holder.ID, category, "", nil
}
