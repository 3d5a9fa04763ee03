package service

import (
	"context"
	"encoding/json"
	"time"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/pkg/cache"
	"go-sysadmin/internal/repository/dao"
)

const (
	menuTreeCacheKey = "menu:tree"
	menuTreeCacheTTL = 120 * time.Second
)

// MenuStore 菜单存储语义，由 dao.SysMenuDAO 实现。
// service 只依赖这些语义，不绑定具体查询实现，测试用内存假实现。
type MenuStore interface {
	SelectTreeMenus(ctx context.Context, q dao.MenuQuery) ([]*model.SysMenu, error)
	SelectTreeMenusByRoles(ctx context.Context, q dao.MenuQuery, roleIDs []int64) ([]*model.SysMenu, error)
	SelectMenus(ctx context.Context, q dao.MenuQuery) ([]model.SysMenu, error)
	SelectMenusByRoles(ctx context.Context, q dao.MenuQuery, roleIDs []int64) ([]model.SysMenu, error)
	SelectPermsByUser(ctx context.Context, userID int64) ([]model.SysMenu, error)
	SelectMenuByID(ctx context.Context, menuID int64) (*model.SysMenu, error)
	Create(ctx context.Context, m *model.SysMenu) error
	Update(ctx context.Context, m *model.SysMenu) (int64, error)
	Delete(ctx context.Context, menuID int64) (int64, error)
	ChangeSort(ctx context.Context, menuID int64, orderNum int) (int64, error)
	HasChildren(ctx context.Context, menuID int64) (int64, error)
	FindByName(ctx context.Context, menuName string, parentID int64) (*model.SysMenu, error)
	CountRoleUsage(ctx context.Context, menuID int64) (int64, error)
	SelectMenuIDsByRole(ctx context.Context, roleID int64) ([]int64, error)
}

type MenuService struct {
	Store MenuStore
	// 全量树缓存；条件查询不走缓存，写操作统一失效
	Cache cache.Cache
}

func NewMenuService(s MenuStore) *MenuService {
	return &MenuService{Store: s, Cache: cache.NewMemory(menuTreeCacheTTL)}
}

func NewMenuServiceWithCache(s MenuStore, c cache.Cache) *MenuService {
	return &MenuService{Store: s, Cache: c}
}

func emptyQuery(q dao.MenuQuery) bool {
	return q.MenuName == "" && q.Visible == "" && q.Status == "" &&
		len(q.MenuTypes) == 0 && q.ParentID == nil
}

// TreeList 菜单管理树
func (s *MenuService) TreeList(ctx context.Context, q dao.MenuQuery) ([]*model.SysMenu, error) {
	if emptyQuery(q) && s.Cache != nil {
		if v, _ := s.Cache.Get(ctx, menuTreeCacheKey); v != "" {
			var tree []*model.SysMenu
			if json.Unmarshal([]byte(v), &tree) == nil {
				return tree, nil
			}
		}
	}
	tree, err := s.Store.SelectTreeMenus(ctx, q)
	if err != nil {
		return nil, err
	}
	if emptyQuery(q) && s.Cache != nil {
		if b, err2 := json.Marshal(tree); err2 == nil {
			_ = s.Cache.SetEX(ctx, menuTreeCacheKey, string(b), menuTreeCacheTTL)
		}
	}
	return tree, nil
}

// TreeListByRoles 按角色集过滤后的树；空角色集返回空森林。
func (s *MenuService) TreeListByRoles(ctx context.Context, q dao.MenuQuery, roleIDs []int64) ([]*model.SysMenu, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	return s.Store.SelectTreeMenusByRoles(ctx, q, roleIDs)
}

// List 平铺查询，不组树
func (s *MenuService) List(ctx context.Context, q dao.MenuQuery) ([]model.SysMenu, error) {
	return s.Store.SelectMenus(ctx, q)
}

func (s *MenuService) ListByRoles(ctx context.Context, q dao.MenuQuery, roleIDs []int64) ([]model.SysMenu, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	return s.Store.SelectMenusByRoles(ctx, q, roleIDs)
}

// PermsByUser 用户可达菜单。存储层联查可能因多角色产生重复行，
// 这里按 menu_id 去重（保序），与旧实现的差异见 DESIGN.md。
func (s *MenuService) PermsByUser(ctx context.Context, userID int64) ([]model.SysMenu, error) {
	rows, err := s.Store.SelectPermsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(rows))
	out := make([]model.SysMenu, 0, len(rows))
	for _, m := range rows {
		if _, ok := seen[m.MenuID]; ok {
			continue
		}
		seen[m.MenuID] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

// PermKeysByUser 去重后的权限标识集合（过滤空串）
func (s *MenuService) PermKeysByUser(ctx context.Context, userID int64) ([]string, error) {
	menus, err := s.PermsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(menus))
	keys := make([]string, 0, len(menus))
	for _, m := range menus {
		if m.Perms == "" {
			continue
		}
		if _, ok := seen[m.Perms]; ok {
			continue
		}
		seen[m.Perms] = struct{}{}
		keys = append(keys, m.Perms)
	}
	return keys, nil
}

func (s *MenuService) Get(ctx context.Context, menuID int64) (*model.SysMenu, error) {
	return s.Store.SelectMenuByID(ctx, menuID)
}

// Add 新增菜单；生成的 id 由存储层回填到 m。
func (s *MenuService) Add(ctx context.Context, m *model.SysMenu) error {
	err := s.Store.Create(ctx, m)
	if err == nil {
		s.invalidate(ctx)
	}
	return err
}

// Edit 整行覆盖；返回影响行数，0 表示 id 不存在，由调用方裁决。
func (s *MenuService) Edit(ctx context.Context, m *model.SysMenu) (int64, error) {
	n, err := s.Store.Update(ctx, m)
	if err == nil && n > 0 {
		s.invalidate(ctx)
	}
	return n, err
}

// Remove 按 id 删除；不级联子节点，前置校验见 handler。
func (s *MenuService) Remove(ctx context.Context, menuID int64) (int64, error) {
	n, err := s.Store.Delete(ctx, menuID)
	if err == nil && n > 0 {
		s.invalidate(ctx)
	}
	return n, err
}

func (s *MenuService) ChangeSort(ctx context.Context, menuID int64, orderNum int) (int64, error) {
	n, err := s.Store.ChangeSort(ctx, menuID, orderNum)
	if err == nil && n > 0 {
		s.invalidate(ctx)
	}
	return n, err
}

func (s *MenuService) HasChildren(ctx context.Context, menuID int64) (bool, error) {
	n, err := s.Store.HasChildren(ctx, menuID)
	return n > 0, err
}

// IsNameUnique 同父层级下名称唯一性；excludeMenuID 用于编辑时排除自身。
func (s *MenuService) IsNameUnique(ctx context.Context, menuName string, parentID, excludeMenuID int64) (bool, error) {
	m, err := s.Store.FindByName(ctx, menuName, parentID)
	if err != nil {
		return false, err
	}
	return m == nil || m.MenuID == excludeMenuID, nil
}

func (s *MenuService) RoleUsage(ctx context.Context, menuID int64) (int64, error) {
	return s.Store.CountRoleUsage(ctx, menuID)
}

func (s *MenuService) MenuIDsByRole(ctx context.Context, roleID int64) ([]int64, error) {
	return s.Store.SelectMenuIDsByRole(ctx, roleID)
}

func (s *MenuService) invalidate(ctx context.Context) {
	if s.Cache != nil {
		_ = s.Cache.Del(ctx, menuTreeCacheKey)
	}
}
