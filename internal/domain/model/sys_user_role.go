package model

// SysUserRole 用户-角色关联表
type SysUserRole struct {
	UserID int64 `gorm:"primaryKey;column:user_id" json:"userId"`
	RoleID int64 `gorm:"primaryKey;column:role_id" json:"roleId"`
}

func (SysUserRole) TableName() string { return "sys_user_role" }
