package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-sysadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// MenuQuery 菜单查询条件；零值字段不参与过滤（对齐旧仓库 WhereIF 语义）
type MenuQuery struct {
	MenuName  string   // 名称模糊匹配
	Visible   string   // 精确匹配
	Status    string   // 精确匹配
	MenuTypes []string // menu_type IN (...)
	ParentID  *int64   // 精确匹配；树查询同时作为根
}

type SysMenuDAO struct{ DB *gorm.DB }

func NewSysMenuDAO(db *gorm.DB) *SysMenuDAO { return &SysMenuDAO{DB: db} }

func (d *SysMenuDAO) tracer() trace.Tracer { return otel.Tracer("dao.sys_menu") }

func (d *SysMenuDAO) apply(q *gorm.DB, mq MenuQuery) *gorm.DB {
	if mq.MenuName != "" {
		q = q.Where("menu_name ILIKE ?", "%"+mq.MenuName+"%")
	}
	if mq.Visible != "" {
		q = q.Where("visible = ?", mq.Visible)
	}
	if mq.Status != "" {
		q = q.Where("status = ?", mq.Status)
	}
	if len(mq.MenuTypes) > 0 {
		q = q.Where("menu_type IN ?", mq.MenuTypes)
	}
	if mq.ParentID != nil {
		q = q.Where("parent_id = ?", *mq.ParentID)
	}
	return q.Order("parent_id ASC, order_num ASC")
}

// SelectTreeMenus 菜单管理树：按条件取平铺集后从根组树。
// 根默认 0；过滤后祖先链不可达根的节点直接丢弃（既定策略，不报错）。
func (d *SysMenuDAO) SelectTreeMenus(ctx context.Context, mq MenuQuery) ([]*model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.SelectTreeMenus")
	defer span.End()
	var list []model.SysMenu
	if err := d.apply(d.DB.WithContext(ctx).Model(&model.SysMenu{}), mq).Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select tree menus: %w", err)
	}
	var root int64
	if mq.ParentID != nil {
		root = *mq.ParentID
	}
	return BuildTree(list, root), nil
}

// SelectTreeMenusByRoles 先取角色可见菜单 id 并集（去重），再组树，根固定为 0。
func (d *SysMenuDAO) SelectTreeMenusByRoles(ctx context.Context, mq MenuQuery, roleIDs []int64) ([]*model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.SelectTreeMenusByRoles")
	defer span.End()
	if len(roleIDs) == 0 {
		return nil, nil
	}
	var menuIDs []int64
	if err := d.DB.WithContext(ctx).Model(&model.SysRoleMenu{}).
		Where("role_id IN ?", roleIDs).
		Distinct("menu_id").Pluck("menu_id", &menuIDs).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select role menu ids: %w", err)
	}
	if len(menuIDs) == 0 {
		return nil, nil
	}
	var list []model.SysMenu
	q := d.DB.WithContext(ctx).Model(&model.SysMenu{}).Where("menu_id IN ?", menuIDs)
	if err := d.apply(q, mq).Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select tree menus by roles: %w", err)
	}
	return BuildTree(list, 0), nil
}

// SelectMenus 平铺列表，条件同树查询，不组树。
func (d *SysMenuDAO) SelectMenus(ctx context.Context, mq MenuQuery) ([]model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.SelectMenus")
	defer span.End()
	var list []model.SysMenu
	if err := d.apply(d.DB.WithContext(ctx).Model(&model.SysMenu{}), mq).Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select menus: %w", err)
	}
	return list, nil
}

// SelectMenusByRoles 内联 sys_role_menu，额外限定 status=正常。
// 多角色命中同一菜单会出现重复行，与旧仓库一致，去重交给上层。
func (d *SysMenuDAO) SelectMenusByRoles(ctx context.Context, mq MenuQuery, roleIDs []int64) ([]model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.SelectMenusByRoles")
	defer span.End()
	if len(roleIDs) == 0 {
		return nil, nil
	}
	q := d.DB.WithContext(ctx).Model(&model.SysMenu{}).
		Joins("INNER JOIN sys_role_menu rm ON rm.menu_id = sys_menu.menu_id").
		Where("rm.role_id IN ?", roleIDs).
		Where("sys_menu.status = ?", model.MenuEnabled)
	if mq.MenuName != "" {
		q = q.Where("sys_menu.menu_name ILIKE ?", "%"+mq.MenuName+"%")
	}
	if mq.Visible != "" {
		q = q.Where("sys_menu.visible = ?", mq.Visible)
	}
	var list []model.SysMenu
	if err := q.Order("sys_menu.parent_id ASC, sys_menu.order_num ASC").Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select menus by roles: %w", err)
	}
	return list, nil
}

// SelectPermsByUser 菜单→角色菜单→用户角色→角色 四表串联，菜单与角色均需正常状态。
// 用户持有多个授予同一菜单的角色时会返回重复行，由 service 层按 menu_id 去重。
func (d *SysMenuDAO) SelectPermsByUser(ctx context.Context, userID int64) ([]model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.SelectPermsByUser")
	defer span.End()
	var list []model.SysMenu
	err := d.DB.WithContext(ctx).Table("sys_menu AS m").
		Select("m.*").
		Joins("LEFT JOIN sys_role_menu rm ON m.menu_id = rm.menu_id").
		Joins("LEFT JOIN sys_user_role ur ON rm.role_id = ur.role_id").
		Joins("LEFT JOIN sys_role r ON ur.role_id = r.role_id").
		Where("m.status = ? AND r.status = ? AND ur.user_id = ?", model.MenuEnabled, model.MenuEnabled, userID).
		Find(&list).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select perms by user id=%d: %w", userID, err)
	}
	return list, nil
}

// SelectMenuByID 菜单详情；不存在返回 nil, nil。
func (d *SysMenuDAO) SelectMenuByID(ctx context.Context, menuID int64) (*model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.SelectMenuByID")
	defer span.End()
	var m model.SysMenu
	if err := d.DB.WithContext(ctx).First(&m, "menu_id = ?", menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select menu id=%d: %w", menuID, err)
	}
	return &m, nil
}

// Create 写入 create_time 后插入，数据库生成的 menu_id 回填到入参。
func (d *SysMenuDAO) Create(ctx context.Context, m *model.SysMenu) error {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.Create")
	defer span.End()
	m.CreateTime = time.Now()
	if err := d.DB.WithContext(ctx).Create(m).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create menu: %w", err)
	}
	return nil
}

// Update 按 menu_id 整行覆盖（menu_id / create_time 除外）。
// id 不存在时影响行数为 0，不报错，由调用方检查。
func (d *SysMenuDAO) Update(ctx context.Context, m *model.SysMenu) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.Update")
	defer span.End()
	res := d.DB.WithContext(ctx).Model(&model.SysMenu{}).
		Where("menu_id = ?", m.MenuID).
		Select("*").Omit("menu_id", "create_time").
		Updates(m)
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, res.Error.Error())
		return 0, fmt.Errorf("update menu id=%d: %w", m.MenuID, res.Error)
	}
	return res.RowsAffected, nil
}

// Delete 按 id 删除，不级联子节点（孤儿防护由调用方 HasChildren 前置校验）。
func (d *SysMenuDAO) Delete(ctx context.Context, menuID int64) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.Delete")
	defer span.End()
	res := d.DB.WithContext(ctx).Delete(&model.SysMenu{}, "menu_id = ?", menuID)
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, res.Error.Error())
		return 0, fmt.Errorf("delete menu id=%d: %w", menuID, res.Error)
	}
	return res.RowsAffected, nil
}

// ChangeSort 仅更新排序键。
func (d *SysMenuDAO) ChangeSort(ctx context.Context, menuID int64, orderNum int) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.ChangeSort")
	defer span.End()
	res := d.DB.WithContext(ctx).Model(&model.SysMenu{}).
		Where("menu_id = ?", menuID).Update("order_num", orderNum)
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, res.Error.Error())
		return 0, fmt.Errorf("change sort id=%d: %w", menuID, res.Error)
	}
	return res.RowsAffected, nil
}

// HasChildren 子节点计数，0 表示叶子。
func (d *SysMenuDAO) HasChildren(ctx context.Context, menuID int64) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.HasChildren")
	defer span.End()
	var n int64
	if err := d.DB.WithContext(ctx).Model(&model.SysMenu{}).
		Where("parent_id = ?", menuID).Count(&n).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("count children id=%d: %w", menuID, err)
	}
	return n, nil
}

// FindByName 同父层级下的同名检测，命中返回冲突记录，未命中返回 nil。
// 唯一性策略由调用方执行，这里只做存在性查询。
func (d *SysMenuDAO) FindByName(ctx context.Context, menuName string, parentID int64) (*model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.FindByName")
	defer span.End()
	var m model.SysMenu
	err := d.DB.WithContext(ctx).
		Where("menu_name = ? AND parent_id = ?", menuName, parentID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find menu by name: %w", err)
	}
	return &m, nil
}

// ========== RoleMenu ==========

// CountRoleUsage 菜单被角色引用的次数，删除前的在用检查。
func (d *SysMenuDAO) CountRoleUsage(ctx context.Context, menuID int64) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.CountRoleUsage")
	defer span.End()
	var n int64
	if err := d.DB.WithContext(ctx).Model(&model.SysRoleMenu{}).
		Where("menu_id = ?", menuID).Count(&n).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("count role usage id=%d: %w", menuID, err)
	}
	return n, nil
}

// SelectMenuIDsByRole 角色勾选回显用
func (d *SysMenuDAO) SelectMenuIDsByRole(ctx context.Context, roleID int64) ([]int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.SelectMenuIDsByRole")
	defer span.End()
	var ids []int64
	if err := d.DB.WithContext(ctx).Model(&model.SysRoleMenu{}).
		Where("role_id = ?", roleID).Pluck("menu_id", &ids).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select menu ids role=%d: %w", roleID, err)
	}
	return ids, nil
}

// BuildTree 平铺集 -> 森林。入参需已按 (parent_id, order_num) 升序，
// 分组追加保持兄弟有序；从 rootID 出发挂接，够不着根的节点不进结果。
func BuildTree(list []model.SysMenu, rootID int64) []*model.SysMenu {
	children := make(map[int64][]*model.SysMenu, len(list))
	for i := range list {
		n := list[i]
		n.Children = nil
		children[n.ParentID] = append(children[n.ParentID], &n)
	}
	var attach func(n *model.SysMenu)
	attach = func(n *model.SysMenu) {
		if ch, ok := children[n.MenuID]; ok {
			for _, c := range ch {
				attach(c)
			}
			n.Children = ch
		}
	}
	roots := children[rootID]
	for _, r := range roots {
		attach(r)
	}
	return roots
}
