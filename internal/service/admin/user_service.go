package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/common/crypto"
	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// UserService 用户管理服务
type UserService struct {
	userRepo *repository.UserRepository
	roleRepo *repository.RoleRepository
	db       *gorm.DB
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, db *gorm.DB) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		db:       db,
	}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username  string   `json:"username" binding:"required,min=3,max=50"`
	Password  string   `json:"password" binding:"required,min=6,max=32"`
	Nickname  string   `json:"nickname"`
	Phone     *string  `json:"phone,omitempty"`
	Email     *string  `json:"email,omitempty"`
	InviterID *string  `json:"inviter_id,omitempty"`
	RoleIDs   []string `json:"role_ids"`
}

// Create 创建用户并分配角色
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	if req.InviterID != nil {
		if err := s.checkInviter(ctx, *req.InviterID); err != nil {
			return nil, err
		}
	}

	var roles []models.Role
	if len(req.RoleIDs) > 0 {
		roles, err = s.roleRepo.GetByIDs(ctx, req.RoleIDs)
		if err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		if len(roles) != len(req.RoleIDs) {
			return nil, apperrors.ErrRoleNotFound
		}
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}

	user := &models.User{
		Username:  req.Username,
		Password:  hash,
		Nickname:  nickname,
		Phone:     req.Phone,
		Email:     req.Email,
		InviterID: req.InviterID,
		Status:    models.UserStatusActive,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(user).Error; err != nil {
			return err
		}
		if len(roles) > 0 {
			return tx.WithContext(ctx).Model(user).Association("Roles").Replace(roles)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	user.Roles = roles
	return user, nil
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// Update 更新用户资料
func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	fields := make(map[string]interface{})
	if req.Nickname != nil {
		fields["nickname"] = *req.Nickname
	}
	if req.Phone != nil {
		fields["phone"] = req.Phone
	}
	if req.Email != nil {
		fields["email"] = req.Email
	}
	if req.Avatar != nil {
		fields["avatar"] = req.Avatar
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// UpdateStatus 启用或禁用用户
func (s *UserService) UpdateStatus(ctx context.Context, id string, status int8) error {
	if status != models.UserStatusActive && status != models.UserStatusDisabled {
		return apperrors.ErrInvalidParams.WithMessage("无效的用户状态")
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// ResetPassword 管理员重置用户密码
func (s *UserService) ResetPassword(ctx context.Context, id string, newPassword string) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return apperrors.ErrInternalError.WithError(err)
	}
	if err := s.userRepo.UpdateFields(ctx, id, map[string]interface{}{"password": hash}); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// AssignRoles 重新分配用户角色
func (s *UserService) AssignRoles(ctx context.Context, id string, roleIDs []string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	var roles []models.Role
	if len(roleIDs) > 0 {
		roles, err = s.roleRepo.GetByIDs(ctx, roleIDs)
		if err != nil {
			return apperrors.ErrDatabaseError.WithError(err)
		}
		if len(roles) != len(roleIDs) {
			return apperrors.ErrRoleNotFound
		}
	}

	if err := s.userRepo.ReplaceRoles(ctx, user, roles); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Delete 删除用户
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Get 获取用户详情（含角色）
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithRoles(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

// List 分页查询用户
func (s *UserService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return users, total, nil
}

// ListReferrals 查询用户邀请的下级用户
func (s *UserService) ListReferrals(ctx context.Context, inviterID string, offset, limit int) ([]*models.User, int64, error) {
	if _, err := s.getUser(ctx, inviterID); err != nil {
		return nil, 0, err
	}
	users, total, err := s.userRepo.GetReferrals(ctx, inviterID, offset, limit)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return users, total, nil
}

// checkInviter 校验邀请人存在且启用
func (s *UserService) checkInviter(ctx context.Context, inviterID string) error {
	inviter, err := s.userRepo.GetByID(ctx, inviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInviterNotFound
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if inviter.Status != models.UserStatusActive {
		return apperrors.ErrInviterDisabled
	}
	return nil
}

// getUser 按 ID 获取用户
func (s *UserService) getUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}
