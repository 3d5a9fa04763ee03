package retcode

// 与旧管理端 ResultCode 对齐，前端按 code 分支
const (
	SUCCESS       = 200
	PARAM_ERROR   = 101
	DATA_EXISTS   = 102
	CUSTOM_ERROR  = 103
	NOT_FOUND     = 104
	ADD_FAILED    = 105
	UPDATE_FAILED = 106
	DELETE_FAILED = 107
	HAS_CHILD     = 108
	IN_USE        = 109
	AUTH_ERROR    = 401
	FORBIDDEN     = 403
	SERVICE_ERROR = 500
)

type CodeInfo struct {
	Code    int
	Message string
}

func All() map[string]CodeInfo {
	return map[string]CodeInfo{
		"SUCCESS":       {SUCCESS, "请求成功"},
		"PARAM_ERROR":   {PARAM_ERROR, "请求参数错误"},
		"DATA_EXISTS":   {DATA_EXISTS, "数据已经存在"},
		"CUSTOM_ERROR":  {CUSTOM_ERROR, "业务处理失败"},
		"NOT_FOUND":     {NOT_FOUND, "记录未找到"},
		"ADD_FAILED":    {ADD_FAILED, "添加记录失败"},
		"UPDATE_FAILED": {UPDATE_FAILED, "更新记录失败"},
		"DELETE_FAILED": {DELETE_FAILED, "删除失败"},
		"HAS_CHILD":     {HAS_CHILD, "存在子节点，不允许删除"},
		"IN_USE":        {IN_USE, "已被分配使用，不允许删除"},
		"AUTH_ERROR":    {AUTH_ERROR, "身份认证失败"},
		"FORBIDDEN":     {FORBIDDEN, "没有权限"},
		"SERVICE_ERROR": {SERVICE_ERROR, "系统异常"},
	}
}
