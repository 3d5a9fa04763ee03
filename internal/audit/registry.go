package audit

import "sync"

// ParamsKey 拦截器完成参数绑定后写入 gin.Context 的 key
const ParamsKey = "bound_params"

// RouteOptions 路由级审计声明，等价于旧系统的 Log 注解：
// 标题/业务类型入库，Encrypt 控制请求体解码，Save* 控制脱敏留存。
// Params 声明参数原型工厂；声明后由拦截器统一绑定校验，
// 校验失败业务 handler 不执行（对齐旧框架的 ModelState 语义）。
type RouteOptions struct {
	Title        string
	BusinessType int
	Encrypt      EncryptType
	SaveRequest  bool
	SaveResponse bool
	Controller   string
	Action       string
	Params       func() interface{}
}

// MethodName 入库格式: Controller.Action()
func (o RouteOptions) MethodName() string {
	if o.Controller == "" && o.Action == "" {
		return ""
	}
	return o.Controller + "." + o.Action + "()"
}

// Registry 显式路由元数据表，启动期注册、请求期只读。
// key 为 "METHOD 注册路径"，替代运行时反射取注解。
type Registry struct {
	mu     sync.RWMutex
	routes map[string]RouteOptions
}

func NewRegistry() *Registry { return &Registry{routes: make(map[string]RouteOptions)} }

func (r *Registry) Register(method, path string, opt RouteOptions) {
	r.mu.Lock()
	r.routes[method+" "+path] = opt
	r.mu.Unlock()
}

// Lookup 未注册的路由返回 ok=false，拦截器据此跳过审计落库。
func (r *Registry) Lookup(method, path string) (RouteOptions, bool) {
	r.mu.RLock()
	opt, ok := r.routes[method+" "+path]
	r.mu.RUnlock()
	return opt, ok
}
