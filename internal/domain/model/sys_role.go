package model

// SysRole 对应 sys_role 角色表
type SysRole struct {
	RoleID   int64  `gorm:"primaryKey;column:role_id" json:"roleId"`
	RoleName string `gorm:"column:role_name;size:30" json:"roleName"`
	RoleKey  string `gorm:"column:role_key;size:100" json:"roleKey"`
	RoleSort int    `gorm:"column:role_sort" json:"roleSort"`
	Status   string `gorm:"column:status;size:1" json:"status"` // 0正常 1停用
	Remark   string `gorm:"column:remark;size:500" json:"remark"`
}

func (SysRole) TableName() string { return "sys_role" }
