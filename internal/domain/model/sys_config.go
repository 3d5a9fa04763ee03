package model

import "time"

// SysConfig 对应 sys_config 参数配置表
type SysConfig struct {
	ConfigID    int64     `gorm:"primaryKey;column:config_id" json:"configId"`
	ConfigName  string    `gorm:"column:config_name;size:100" json:"configName"`
	ConfigKey   string    `gorm:"column:config_key;size:100;index" json:"configKey"`
	ConfigValue string    `gorm:"column:config_value;size:500" json:"configValue"`
	ConfigType  string    `gorm:"column:config_type;size:1" json:"configType"` // Y系统内置 N用户配置
	CreateTime  time.Time `gorm:"column:create_time" json:"createTime"`
}

func (SysConfig) TableName() string { return "sys_config" }
