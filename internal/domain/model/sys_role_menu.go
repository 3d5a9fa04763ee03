package model

// SysRoleMenu 角色-菜单关联表，仅存在性语义，无载荷字段
type SysRoleMenu struct {
	RoleID int64 `gorm:"primaryKey;column:role_id" json:"roleId"`
	MenuID int64 `gorm:"primaryKey;column:menu_id" json:"menuId"`
}

func (SysRoleMenu) TableName() string { return "sys_role_menu" }
