package service

import (
	"context"
	"testing"
	"time"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/pkg/cache"
	"go-sysadmin/internal/repository/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMenuStore 内存假实现，记录调用次数验证缓存路径
type fakeMenuStore struct {
	tree      []*model.SysMenu
	flat      []model.SysMenu
	perms     []model.SysMenu
	byName    *model.SysMenu
	updateN   int64
	deleteN   int64
	sortN     int64
	children  int64
	roleUsage int64

	treeCalls  int
	rolesCalls int
}

func (f *fakeMenuStore) SelectTreeMenus(ctx context.Context, q dao.MenuQuery) ([]*model.SysMenu, error) {
	f.treeCalls++
	return f.tree, nil
}
func (f *fakeMenuStore) SelectTreeMenusByRoles(ctx context.Context, q dao.MenuQuery, roleIDs []int64) ([]*model.SysMenu, error) {
	f.rolesCalls++
	return f.tree, nil
}
func (f *fakeMenuStore) SelectMenus(ctx context.Context, q dao.MenuQuery) ([]model.SysMenu, error) {
	return f.flat, nil
}
func (f *fakeMenuStore) SelectMenusByRoles(ctx context.Context, q dao.MenuQuery, roleIDs []int64) ([]model.SysMenu, error) {
	f.rolesCalls++
	return f.flat, nil
}
func (f *fakeMenuStore) SelectPermsByUser(ctx context.Context, userID int64) ([]model.SysMenu, error) {
	return f.perms, nil
}
func (f *fakeMenuStore) SelectMenuByID(ctx context.Context, menuID int64) (*model.SysMenu, error) {
	return nil, nil
}
func (f *fakeMenuStore) Create(ctx context.Context, m *model.SysMenu) error {
	m.MenuID = 42
	return nil
}
func (f *fakeMenuStore) Update(ctx context.Context, m *model.SysMenu) (int64, error) {
	return f.updateN, nil
}
func (f *fakeMenuStore) Delete(ctx context.Context, menuID int64) (int64, error) {
	return f.deleteN, nil
}
func (f *fakeMenuStore) ChangeSort(ctx context.Context, menuID int64, orderNum int) (int64, error) {
	return f.sortN, nil
}
func (f *fakeMenuStore) HasChildren(ctx context.Context, menuID int64) (int64, error) {
	return f.children, nil
}
func (f *fakeMenuStore) FindByName(ctx context.Context, menuName string, parentID int64) (*model.SysMenu, error) {
	return f.byName, nil
}
func (f *fakeMenuStore) CountRoleUsage(ctx context.Context, menuID int64) (int64, error) {
	return f.roleUsage, nil
}
func (f *fakeMenuStore) SelectMenuIDsByRole(ctx context.Context, roleID int64) ([]int64, error) {
	return []int64{1, 2}, nil
}

func newTestMenuService(f *fakeMenuStore) *MenuService {
	return NewMenuServiceWithCache(f, cache.NewMemory(time.Minute))
}

func TestTreeListCachesEmptyQuery(t *testing.T) {
	f := &fakeMenuStore{tree: []*model.SysMenu{{MenuID: 1, MenuName: "系统管理"}}}
	s := newTestMenuService(f)
	ctx := context.Background()

	first, err := s.TreeList(ctx, dao.MenuQuery{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	second, err := s.TreeList(ctx, dao.MenuQuery{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, f.treeCalls, "第二次应命中缓存")

	// 条件查询绕过缓存
	_, err = s.TreeList(ctx, dao.MenuQuery{MenuName: "系统"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.treeCalls)
}

func TestWriteInvalidatesTreeCache(t *testing.T) {
	f := &fakeMenuStore{tree: []*model.SysMenu{{MenuID: 1}}, updateN: 1}
	s := newTestMenuService(f)
	ctx := context.Background()

	_, _ = s.TreeList(ctx, dao.MenuQuery{})
	_, _ = s.TreeList(ctx, dao.MenuQuery{})
	require.Equal(t, 1, f.treeCalls)

	n, err := s.Edit(ctx, &model.SysMenu{MenuID: 1, MenuName: "改名"})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, _ = s.TreeList(ctx, dao.MenuQuery{})
	assert.Equal(t, 2, f.treeCalls, "写后缓存应失效")
}

func TestEditZeroRowsKeepsCache(t *testing.T) {
	f := &fakeMenuStore{tree: []*model.SysMenu{{MenuID: 1}}, updateN: 0}
	s := newTestMenuService(f)
	ctx := context.Background()

	_, _ = s.TreeList(ctx, dao.MenuQuery{})
	n, err := s.Edit(ctx, &model.SysMenu{MenuID: 404})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, _ = s.TreeList(ctx, dao.MenuQuery{})
	assert.Equal(t, 1, f.treeCalls, "未命中的更新不应失效缓存")
}

func TestTreeListByRolesEmptyRoles(t *testing.T) {
	f := &fakeMenuStore{}
	s := newTestMenuService(f)
	tree, err := s.TreeListByRoles(context.Background(), dao.MenuQuery{}, nil)
	require.NoError(t, err)
	assert.Nil(t, tree)
	assert.Zero(t, f.rolesCalls, "空角色集不应访问存储")
}

func TestPermsByUserDedup(t *testing.T) {
	f := &fakeMenuStore{perms: []model.SysMenu{
		{MenuID: 1, Perms: "system:menu:list"},
		{MenuID: 2, Perms: "system:menu:add"},
		{MenuID: 1, Perms: "system:menu:list"}, // 多角色重复行
		{MenuID: 3, Perms: ""},
	}}
	s := newTestMenuService(f)

	menus, err := s.PermsByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, menus, 3)
	assert.Equal(t, int64(1), menus[0].MenuID)
	assert.Equal(t, int64(2), menus[1].MenuID)
	assert.Equal(t, int64(3), menus[2].MenuID)

	keys, err := s.PermKeysByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"system:menu:list", "system:menu:add"}, keys)
}

func TestIsNameUnique(t *testing.T) {
	f := &fakeMenuStore{}
	s := newTestMenuService(f)
	ctx := context.Background()

	ok, err := s.IsNameUnique(ctx, "新菜单", 0, 0)
	require.NoError(t, err)
	assert.True(t, ok, "无同名记录应视为唯一")

	f.byName = &model.SysMenu{MenuID: 5, MenuName: "菜单管理"}
	ok, err = s.IsNameUnique(ctx, "菜单管理", 0, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// 编辑场景命中自身不算冲突
	ok, err = s.IsNameUnique(ctx, "菜单管理", 0, 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasChildrenAndRoleUsage(t *testing.T) {
	f := &fakeMenuStore{children: 2, roleUsage: 1}
	s := newTestMenuService(f)
	has, err := s.HasChildren(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, has)
	n, err := s.RoleUsage(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
