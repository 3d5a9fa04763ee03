package model

import "time"

// 操作日志 status
const (
	OperStatusOK   = 0
	OperStatusFail = 1
)

// 业务类型（与旧库 business_type 对齐）
const (
	BusinessOther  = 0
	BusinessInsert = 1
	BusinessUpdate = 2
	BusinessDelete = 3
	BusinessExport = 5
	BusinessClean  = 9
)

// SysOperLog 对应 sys_oper_log 操作日志表，一次被记录的请求一行。
// oper_param / json_result 受路由级保存开关控制，可能为空串。
type SysOperLog struct {
	OperID        int64     `gorm:"primaryKey;column:oper_id" json:"operId"`
	Title         string    `gorm:"column:title;size:50" json:"title"`
	BusinessType  int       `gorm:"column:business_type" json:"businessType"`
	Method        string    `gorm:"column:method;size:100" json:"method"` // Controller.Action()
	RequestMethod string    `gorm:"column:request_method;size:10" json:"requestMethod"`
	OperName      string    `gorm:"column:oper_name;size:50" json:"operName"`
	OperURL       string    `gorm:"column:oper_url;size:255" json:"operUrl"`
	OperIP        string    `gorm:"column:oper_ip;size:64" json:"operIp"`
	OperLocation  string    `gorm:"column:oper_location;size:255" json:"operLocation"`
	OperParam     string    `gorm:"column:oper_param;size:4000" json:"operParam"`
	JSONResult    string    `gorm:"column:json_result;size:4000" json:"jsonResult"`
	Status        int       `gorm:"column:status" json:"status"`
	ErrorMsg      string    `gorm:"column:error_msg;size:2000" json:"errorMsg"`
	OperTime      time.Time `gorm:"column:oper_time;index" json:"operTime"`
	ElapsedMs     int64     `gorm:"column:elapsed_ms" json:"elapsedMs"`
}

func (SysOperLog) TableName() string { return "sys_oper_log" }
