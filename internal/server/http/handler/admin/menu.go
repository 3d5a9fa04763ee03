package admin

import (
	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/repository/dao"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct{ d Dependencies }

func NewMenuHandler(d Dependencies) *MenuHandler { return &MenuHandler{d: d} }

func menuQueryOf(req *MenuListReq) dao.MenuQuery {
	if req == nil {
		return dao.MenuQuery{}
	}
	return dao.MenuQuery{
		MenuName:  req.MenuName,
		Visible:   req.Visible,
		Status:    req.Status,
		MenuTypes: splitMenuTypes(req.MenuType),
		ParentID:  req.ParentID,
	}
}

// List 平铺列表；超管看全量，其余按角色过滤
func (h *MenuHandler) List(c *gin.Context) {
	req := bound[MenuListReq](c)
	if req == nil {
		req = &MenuListReq{}
		if err := c.ShouldBindQuery(req); err != nil {
			response.Error(c, retcode.PARAM_ERROR, err.Error())
			return
		}
	}
	roles := rolesFromCtx(c)
	var (
		list []model.SysMenu
		err  error
	)
	if isAdmin(roles) {
		list, err = h.d.Menu.List(c.Request.Context(), menuQueryOf(req))
	} else {
		list, err = h.d.Menu.ListByRoles(c.Request.Context(), menuQueryOf(req), roles)
	}
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, list)
}

// TreeList 菜单管理树
func (h *MenuHandler) TreeList(c *gin.Context) {
	req := bound[MenuListReq](c)
	if req == nil {
		req = &MenuListReq{}
		if err := c.ShouldBindQuery(req); err != nil {
			response.Error(c, retcode.PARAM_ERROR, err.Error())
			return
		}
	}
	roles := rolesFromCtx(c)
	var (
		tree []*model.SysMenu
		err  error
	)
	if isAdmin(roles) {
		tree, err = h.d.Menu.TreeList(c.Request.Context(), menuQueryOf(req))
	} else {
		tree, err = h.d.Menu.TreeListByRoles(c.Request.Context(), menuQueryOf(req), roles)
	}
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, tree)
}

// Get 菜单详情
func (h *MenuHandler) Get(c *gin.Context) {
	id := qInt64(c, "menuId")
	if id <= 0 {
		response.Error(c, retcode.PARAM_ERROR, "menuId required")
		return
	}
	m, err := h.d.Menu.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if m == nil {
		response.Error(c, retcode.NOT_FOUND, "菜单不存在")
		return
	}
	response.Success(c, m)
}

// Add 同父层级名称唯一
func (h *MenuHandler) Add(c *gin.Context) {
	req := bound[MenuAddReq](c)
	if req == nil {
		req = &MenuAddReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			response.Error(c, retcode.PARAM_ERROR, err.Error())
			return
		}
	}
	unique, err := h.d.Menu.IsNameUnique(c.Request.Context(), req.MenuName, req.ParentID, 0)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if !unique {
		response.Error(c, retcode.DATA_EXISTS, "菜单名称已存在")
		return
	}
	m := menuOf(req)
	if err := h.d.Menu.Add(c.Request.Context(), m); err != nil {
		response.Error(c, retcode.ADD_FAILED, err.Error())
		return
	}
	response.Success(c, gin.H{"menuId": m.MenuID})
}

// Edit 整行覆盖；目标不存在按更新失败处理
func (h *MenuHandler) Edit(c *gin.Context) {
	req := bound[MenuEditReq](c)
	if req == nil {
		req = &MenuEditReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			response.Error(c, retcode.PARAM_ERROR, err.Error())
			return
		}
	}
	if req.MenuID == req.ParentID {
		response.Error(c, retcode.PARAM_ERROR, "上级菜单不能是自己")
		return
	}
	unique, err := h.d.Menu.IsNameUnique(c.Request.Context(), req.MenuName, req.ParentID, req.MenuID)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if !unique {
		response.Error(c, retcode.DATA_EXISTS, "菜单名称已存在")
		return
	}
	m := menuOf(&req.MenuAddReq)
	m.MenuID = req.MenuID
	n, err := h.d.Menu.Edit(c.Request.Context(), m)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if n == 0 {
		response.Error(c, retcode.UPDATE_FAILED, "更新记录失败")
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// Delete 有子节点或已被角色引用时拒绝
func (h *MenuHandler) Delete(c *gin.Context) {
	id := qInt64(c, "menuId")
	if id <= 0 {
		response.Error(c, retcode.PARAM_ERROR, "menuId required")
		return
	}
	hasChild, err := h.d.Menu.HasChildren(c.Request.Context(), id)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if hasChild {
		response.Error(c, retcode.HAS_CHILD, "存在子菜单，不允许删除")
		return
	}
	used, err := h.d.Menu.RoleUsage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if used > 0 {
		response.Error(c, retcode.IN_USE, "菜单已分配角色，不允许删除")
		return
	}
	n, err := h.d.Menu.Remove(c.Request.Context(), id)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if n == 0 {
		response.Error(c, retcode.DELETE_FAILED, "删除失败")
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// ChangeSort 只动排序键
func (h *MenuHandler) ChangeSort(c *gin.Context) {
	req := bound[MenuSortReq](c)
	if req == nil {
		req = &MenuSortReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			response.Error(c, retcode.PARAM_ERROR, err.Error())
			return
		}
	}
	n, err := h.d.Menu.ChangeSort(c.Request.Context(), req.MenuID, req.OrderNum)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if n == 0 {
		response.Error(c, retcode.UPDATE_FAILED, "更新记录失败")
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// Perms 当前用户权限标识集合（去重）
func (h *MenuHandler) Perms(c *gin.Context) {
	userID := c.GetInt64("user_id")
	keys, err := h.d.Menu.PermKeysByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, keys)
}

// PermMenus 当前用户可达菜单（按 menu_id 去重）
func (h *MenuHandler) PermMenus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	menus, err := h.d.Menu.PermsByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, menus)
}

// RoleMenuIDs 角色勾选回显
func (h *MenuHandler) RoleMenuIDs(c *gin.Context) {
	roleID := qInt64(c, "roleId")
	if roleID <= 0 {
		response.Error(c, retcode.PARAM_ERROR, "roleId required")
		return
	}
	ids, err := h.d.Menu.MenuIDsByRole(c.Request.Context(), roleID)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, ids)
}

func menuOf(req *MenuAddReq) *model.SysMenu {
	visible, status := req.Visible, req.Status
	if visible == "" {
		visible = model.MenuShown
	}
	if status == "" {
		status = model.MenuEnabled
	}
	return &model.SysMenu{
		MenuName:  req.MenuName,
		ParentID:  req.ParentID,
		OrderNum:  req.OrderNum,
		Path:      req.Path,
		Component: req.Component,
		MenuType:  req.MenuType,
		Visible:   visible,
		Status:    status,
		Perms:     req.Perms,
		Icon:      req.Icon,
	}
}
