package model

import "time"

// 菜单类型
const (
	MenuTypeDir    = "M" // 目录
	MenuTypeMenu   = "C" // 菜单
	MenuTypeButton = "F" // 按钮
	MenuTypeLink   = "L" // 外链
)

// Visible / Status 取值沿用旧库: "0" 正常/显示, "1" 停用/隐藏
const (
	MenuEnabled  = "0"
	MenuDisabled = "1"
	MenuShown    = "0"
	MenuHidden   = "1"
)

// SysMenu 对应 sys_menu 表（目录/菜单/按钮权限）
// parent_id=0 表示根节点；Children 仅由树查询填充，不落库。
type SysMenu struct {
	MenuID     int64      `gorm:"primaryKey;column:menu_id" json:"menuId"`
	MenuName   string     `gorm:"column:menu_name;size:50" json:"menuName"`
	ParentID   int64      `gorm:"column:parent_id;index" json:"parentId"`
	OrderNum   int        `gorm:"column:order_num" json:"orderNum"`
	Path       string     `gorm:"column:path;size:200" json:"path"`
	Component  string     `gorm:"column:component;size:255" json:"component"`
	MenuType   string     `gorm:"column:menu_type;size:1" json:"menuType"`
	Visible    string     `gorm:"column:visible;size:1" json:"visible"`
	Status     string     `gorm:"column:status;size:1" json:"status"`
	Perms      string     `gorm:"column:perms;size:100" json:"perms"`
	Icon       string     `gorm:"column:icon;size:100" json:"icon"`
	CreateTime time.Time  `gorm:"column:create_time" json:"createTime"`
	Children   []*SysMenu `gorm:"-" json:"children,omitempty"`
}

func (SysMenu) TableName() string { return "sys_menu" }
