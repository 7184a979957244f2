package admin

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// MenuService 菜单管理服务
type MenuService struct {
	menuRepo *repository.MenuRepository
}

// NewMenuService 创建菜单管理服务
func NewMenuService(menuRepo *repository.MenuRepository) *MenuService {
	return &MenuService{menuRepo: menuRepo}
}

// CreateMenuRequest 创建菜单请求
type CreateMenuRequest struct {
	ParentID  *string `json:"parent_id,omitempty"`
	Name      string  `json:"name" binding:"required,max=50"`
	Path      *string `json:"path,omitempty"`
	Component *string `json:"component,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	Sort      int     `json:"sort"`
	Hidden    bool    `json:"hidden"`
}

// Create 创建菜单
func (s *MenuService) Create(ctx context.Context, req *CreateMenuRequest) (*models.Menu, error) {
	if req.ParentID != nil {
		if _, err := s.getMenu(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	menu := &models.Menu{
		ParentID:  req.ParentID,
		Name:      req.Name,
		Path:      req.Path,
		Component: req.Component,
		Icon:      req.Icon,
		Sort:      req.Sort,
		Hidden:    req.Hidden,
	}
	if err := s.menuRepo.Create(ctx, menu); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return menu, nil
}

// UpdateMenuRequest 更新菜单请求
type UpdateMenuRequest struct {
	Name      *string `json:"name,omitempty"`
	Path      *string `json:"path,omitempty"`
	Component *string `json:"component,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	Sort      *int    `json:"sort,omitempty"`
	Hidden    *bool   `json:"hidden,omitempty"`
}

// Update 更新菜单
func (s *MenuService) Update(ctx context.Context, id string, req *UpdateMenuRequest) error {
	menu, err := s.getMenu(ctx, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Path != nil {
		menu.Path = req.Path
	}
	if req.Component != nil {
		menu.Component = req.Component
	}
	if req.Icon != nil {
		menu.Icon = req.Icon
	}
	if req.Sort != nil {
		menu.Sort = *req.Sort
	}
	if req.Hidden != nil {
		menu.Hidden = *req.Hidden
	}

	if err := s.menuRepo.Update(ctx, menu); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Delete 删除菜单，存在子菜单时拒绝
func (s *MenuService) Delete(ctx context.Context, id string) error {
	if _, err := s.getMenu(ctx, id); err != nil {
		return err
	}

	children, err := s.menuRepo.CountChildren(ctx, id)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if children > 0 {
		return apperrors.ErrMenuHasChildren
	}

	if err := s.menuRepo.Delete(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Get 获取菜单详情
func (s *MenuService) Get(ctx context.Context, id string) (*models.Menu, error) {
	return s.getMenu(ctx, id)
}

// Tree 返回完整菜单树
func (s *MenuService) Tree(ctx context.Context) ([]*models.Menu, error) {
	menus, err := s.menuRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return buildMenuTree(menus), nil
}

// TreeForRoles 返回指定角色可见的菜单树
func (s *MenuService) TreeForRoles(ctx context.Context, roleCodes []string) ([]*models.Menu, error) {
	menus, err := s.menuRepo.ListByRoleCodes(ctx, roleCodes)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return buildMenuTree(menus), nil
}

// getMenu 按 ID 获取菜单
func (s *MenuService) getMenu(ctx context.Context, id string) (*models.Menu, error) {
	menu, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMenuNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return menu, nil
}

// buildMenuTree 将菜单列表组装为树
// 父节点不在列表中的菜单按根节点处理，避免角色只分配了子菜单时丢失
func buildMenuTree(menus []*models.Menu) []*models.Menu {
	byID := make(map[string]*models.Menu, len(menus))
	for _, menu := range menus {
		byID[menu.ID] = menu
	}

	childrenOf := make(map[string][]*models.Menu)
	var roots []*models.Menu
	for _, menu := range menus {
		if menu.ParentID != nil {
			if _, ok := byID[*menu.ParentID]; ok {
				childrenOf[*menu.ParentID] = append(childrenOf[*menu.ParentID], menu)
				continue
			}
		}
		roots = append(roots, menu)
	}

	var attach func(menu *models.Menu)
	attach = func(menu *models.Menu) {
		children := childrenOf[menu.ID]
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Sort < children[j].Sort
		})
		menu.Children = make([]models.Menu, 0, len(children))
		for _, child := range children {
			attach(child)
			menu.Children = append(menu.Children, *child)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].Sort < roots[j].Sort
	})
	for _, root := range roots {
		attach(root)
	}
	return roots
}
