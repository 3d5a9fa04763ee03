package dao

import (
	"testing"

	"go-sysadmin/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menu(id, parent int64, name string, order int) model.SysMenu {
	return model.SysMenu{MenuID: id, ParentID: parent, MenuName: name, OrderNum: order}
}

func TestBuildTree(t *testing.T) {
	// 入参已按 (parent_id, order_num) 排序，对齐 DAO 的查询序
	list := []model.SysMenu{
		menu(1, 0, "系统管理", 1),
		menu(2, 0, "系统监控", 2),
		menu(10, 1, "菜单管理", 1),
		menu(11, 1, "参数设置", 2),
		menu(100, 10, "菜单新增", 1),
	}
	tree := BuildTree(list, 0)
	require.Len(t, tree, 2)
	assert.Equal(t, "系统管理", tree[0].MenuName)
	assert.Equal(t, "系统监控", tree[1].MenuName)
	require.Len(t, tree[0].Children, 2)
	// 兄弟节点保持 order_num 序
	assert.Equal(t, "菜单管理", tree[0].Children[0].MenuName)
	assert.Equal(t, "参数设置", tree[0].Children[1].MenuName)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, int64(100), tree[0].Children[0].Children[0].MenuID)
	assert.Nil(t, tree[1].Children)
}

func TestBuildTreeOrphanDropped(t *testing.T) {
	// 祖先链够不着根的节点不进结果
	list := []model.SysMenu{
		menu(1, 0, "根", 1),
		menu(20, 99, "孤儿", 1),
		menu(21, 20, "孤儿的孩子", 1),
	}
	tree := BuildTree(list, 0)
	require.Len(t, tree, 1)
	assert.Equal(t, int64(1), tree[0].MenuID)
}

func TestBuildTreeCustomRoot(t *testing.T) {
	list := []model.SysMenu{
		menu(10, 1, "子树根A", 1),
		menu(11, 1, "子树根B", 2),
		menu(100, 10, "叶子", 1),
	}
	tree := BuildTree(list, 1)
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, int64(100), tree[0].Children[0].MenuID)
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil, 0))
}
