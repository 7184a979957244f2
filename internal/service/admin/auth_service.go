// Package admin 提供后台管理服务
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/common/crypto"
	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/common/jwt"
	"github.com/linchen2024/club-admin-backend/internal/common/logger"
	"github.com/linchen2024/club-admin-backend/internal/common/utils"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// refreshTokenKeyPrefix 刷新令牌在 Redis 中的键前缀
const refreshTokenKeyPrefix = "auth:refresh:"

// AuthService 认证服务
type AuthService struct {
	userRepo      *repository.UserRepository
	menuRepo      *repository.MenuRepository
	jwtManager    *jwt.Manager
	redisClient   *redis.Client
	refreshExpire time.Duration
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo *repository.UserRepository,
	menuRepo *repository.MenuRepository,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	refreshExpire time.Duration,
) *AuthService {
	if refreshExpire <= 0 {
		refreshExpire = 7 * 24 * time.Hour
	}
	return &AuthService{
		userRepo:      userRepo,
		menuRepo:      menuRepo,
		jwtManager:    jwtManager,
		redisClient:   redisClient,
		refreshExpire: refreshExpire,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User      *UserInfo      `json:"user"`
	TokenPair *jwt.TokenPair `json:"token"`
	Roles     []string       `json:"roles"`
}

// UserInfo 用户信息（不含敏感字段）
type UserInfo struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Nickname  string     `json:"nickname"`
	Phone     *string    `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Avatar    *string    `json:"avatar,omitempty"`
	Roles     []string   `json:"roles"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Login 用户名密码登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByUsernameWithRoles(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !crypto.VerifyPassword(req.Password, user.Password) {
		return nil, apperrors.ErrPasswordError
	}

	roleCodes := activeRoleCodes(user.Roles)
	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username, strings.Join(roleCodes, ","))
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		logger.Warn("存储刷新令牌失败", zap.String("user_id", user.ID), zap.Error(err))
	}

	// 登录信息更新失败不阻塞登录
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"last_login": utils.TimePtr(time.Now()),
	}); err != nil {
		logger.Warn("更新登录时间失败", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &LoginResponse{
		User:      toUserInfo(user),
		TokenPair: tokenPair,
		Roles:     roleCodes,
	}, nil
}

// Logout 登出并吊销刷新令牌
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.redisClient == nil {
		return nil
	}
	if err := s.redisClient.Del(ctx, refreshTokenKeyPrefix+userID).Err(); err != nil {
		return apperrors.ErrCacheError.WithError(err)
	}
	return nil
}

// RefreshToken 使用刷新令牌换取新的令牌对
// 刷新令牌必须与 Redis 中记录的一致，旧令牌随即失效
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.ParseToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid.WithError(err)
	}

	if s.redisClient != nil {
		stored, err := s.redisClient.Get(ctx, refreshTokenKeyPrefix+claims.UserID).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, apperrors.ErrTokenRefreshFail
			}
			return nil, apperrors.ErrCacheError.WithError(err)
		}
		if stored != refreshToken {
			return nil, apperrors.ErrTokenRefreshFail
		}
	}

	// 重新读取用户，角色变更和禁用立即生效
	user, err := s.userRepo.GetByIDWithRoles(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountDisabled
	}

	roleCodes := activeRoleCodes(user.Roles)
	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username, strings.Join(roleCodes, ","))
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		logger.Warn("存储刷新令牌失败", zap.String("user_id", user.ID), zap.Error(err))
	}

	return tokenPair, nil
}

// ProfileResponse 个人信息响应
type ProfileResponse struct {
	User  *UserInfo      `json:"user"`
	Menus []*models.Menu `json:"menus"`
}

// Profile 获取当前用户信息及其可见菜单
func (s *AuthService) Profile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByIDWithRoles(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	menus, err := s.menuRepo.ListByRoleCodes(ctx, activeRoleCodes(user.Roles))
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	return &ProfileResponse{
		User:  toUserInfo(user),
		Menus: buildMenuTree(menus),
	}, nil
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=32"`
}

// ChangePassword 修改当前用户密码，成功后吊销刷新令牌
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.OldPassword, user.Password) {
		return apperrors.ErrPasswordError.WithMessage("原密码错误")
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.ErrInternalError.WithError(err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": hash}); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}

	return s.Logout(ctx, userID)
}

// storeRefreshToken 记录刷新令牌，用于吊销与轮换
func (s *AuthService) storeRefreshToken(ctx context.Context, userID, refreshToken string) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.Set(ctx, refreshTokenKeyPrefix+userID, refreshToken, s.refreshExpire).Err()
}

// activeRoleCodes 提取启用角色的编码
func activeRoleCodes(roles []models.Role) []string {
	codes := make([]string, 0, len(roles))
	for _, role := range roles {
		if role.Status == models.RoleStatusActive {
			codes = append(codes, role.Code)
		}
	}
	return codes
}

// toUserInfo 转换为用户信息
func toUserInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Nickname:  user.Nickname,
		Phone:     user.Phone,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Roles:     activeRoleCodes(user.Roles),
		LastLogin: user.LastLogin,
	}
}
