package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// newTestUserService 构造用户服务
func newTestUserService(db *gorm.DB) *UserService {
	return NewUserService(repository.NewUserRepository(db), repository.NewRoleRepository(db), db)
}

func TestUserService_Create(t *testing.T) {
	t.Run("创建用户并分配角色", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := newTestUserService(db)

		role := createAdminRole(t, db, "coach")
		user, err := svc.Create(ctx, &CreateUserRequest{
			Username: "bob",
			Password: "secret123",
			Nickname: "小王",
			RoleIDs:  []string{role.ID},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "小王", user.Nickname)
		assert.NotEqual(t, "secret123", user.Password)

		got, err := svc.Get(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got.Roles, 1)
		assert.Equal(t, "coach", got.Roles[0].Code)
	})

	t.Run("用户名重复", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := newTestUserService(db)

		_, err := svc.Create(ctx, &CreateUserRequest{Username: "bob", Password: "secret123"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, &CreateUserRequest{Username: "bob", Password: "secret456"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrUserExists.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("邀请人被禁用", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := newTestUserService(db)

		inviter := createLoginUser(t, db, "inviter", "secret123", models.UserStatusDisabled)

		_, err := svc.Create(ctx, &CreateUserRequest{
			Username:  "bob",
			Password:  "secret123",
			InviterID: &inviter.ID,
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrInviterDisabled.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("角色不存在", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := newTestUserService(db)

		_, err := svc.Create(ctx, &CreateUserRequest{
			Username: "bob",
			Password: "secret123",
			RoleIDs:  []string{"missing-role-id"},
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrRoleNotFound.Code, apperrors.GetAppError(err).Code)
	})
}

func TestUserService_AssignRoles(t *testing.T) {
	t.Run("替换角色集合", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := newTestUserService(db)

		coach := createAdminRole(t, db, "coach")
		operator := createAdminRole(t, db, "operator")
		user, err := svc.Create(ctx, &CreateUserRequest{
			Username: "bob",
			Password: "secret123",
			RoleIDs:  []string{coach.ID},
		})
		require.NoError(t, err)

		require.NoError(t, svc.AssignRoles(ctx, user.ID, []string{operator.ID}))

		got, err := svc.Get(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got.Roles, 1)
		assert.Equal(t, "operator", got.Roles[0].Code)
	})
}

func TestUserService_ListReferrals(t *testing.T) {
	t.Run("查询邀请的下级用户", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := newTestUserService(db)

		inviter := createLoginUser(t, db, "inviter", "secret123", models.UserStatusActive)
		for _, name := range []string{"ref_a", "ref_b"} {
			_, err := svc.Create(ctx, &CreateUserRequest{
				Username:  name,
				Password:  "secret123",
				InviterID: &inviter.ID,
			})
			require.NoError(t, err)
		}
		_, err := svc.Create(ctx, &CreateUserRequest{Username: "stranger", Password: "secret123"})
		require.NoError(t, err)

		referrals, total, err := svc.ListReferrals(ctx, inviter.ID, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, referrals, 2)
	})
}
