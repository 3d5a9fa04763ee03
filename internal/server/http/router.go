package http

import (
	"context"
	"time"

	"go-sysadmin/internal/audit"
	"go-sysadmin/internal/config"
	"go-sysadmin/internal/discovery/etcd"
	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/mq/kafka"
	redisrepo "go-sysadmin/internal/repository/redis"
	"go-sysadmin/internal/security/jwt"
	handlerset "go-sysadmin/internal/server/http/handler"
	adm "go-sysadmin/internal/server/http/handler/admin"
	debugh "go-sysadmin/internal/server/http/handler/debug"
	"go-sysadmin/internal/server/http/middleware"
	obs "go-sysadmin/internal/server/http/middleware/observability"
	sec "go-sysadmin/internal/server/http/middleware/security"
	"go-sysadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// RouterDeps 路由装配依赖
type RouterDeps struct {
	JWT      *jwt.Manager
	Logger   *logging.Logger
	Producer *kafka.Producer
	DB       *gorm.DB
	Redis    *redisrepo.Client
	Etcd     *etcd.Client
	Cfg      *config.Config
	Menu     *service.MenuService
	Config   *service.ConfigService
	OperLog  *service.OperLogService
	Recorder service.Recorder
	Registry *audit.Registry
	Codec    *audit.BodyCodec
	Locator  obs.IPLocator // 可为 nil
}

// NewRouter 仅负责分组、中间件装配与审计元数据注册，具体业务放在 handler 层
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	// ConfigInjector 放最前确保后续中间件可读取 app_config
	r.Use(middleware.ConfigInjector(d.Cfg), gin.Recovery(), middleware.CORS(),
		obs.TraceMiddleware(), obs.LoggerContextMiddleware(d.Logger),
		middleware.ResponseWrapper(), obs.AccessLog(d.Logger), obs.Metrics())

	// 健康检查
	hc := NewHealthChecker(d.DB, d.Redis, d.Producer, d.Etcd)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, hc.Liveness()) })
	r.GET("/readyz", func(c *gin.Context) {
		if c.Query("refresh") == "1" {
			hc.cacheMu.Lock()
			hc.cacheExpiry = time.Time{}
			hc.cacheMu.Unlock()
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()
		res, code := hc.Readiness(ctx)
		c.JSON(code, res)
	})
	// Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ad := adm.Dependencies{
		Menu: d.Menu, Config: d.Config, OperLog: d.OperLog,
		JWT: d.JWT, AppCfg: d.Cfg, Cache: d.Menu.Cache, Logger: d.Logger,
	}
	h := handlerset.NewHandlerSet(ad, debugh.Dependencies{Config: d.Cfg, Logger: d.Logger})

	operLog := obs.OperLog(obs.OperLogDeps{
		Registry: d.Registry,
		Recorder: d.Recorder,
		Codec:    d.Codec,
		Locator:  d.Locator,
		Logger:   d.Logger,
	})

	// 写操作登记审计元数据；未登记的路由拦截器直接放行
	reg := func(method, path string, opt audit.RouteOptions) { d.Registry.Register(method, path, opt) }
	reg("POST", "/admin/Menu/add", audit.RouteOptions{
		Title: "菜单管理", BusinessType: model.BusinessInsert,
		Controller: "SysMenu", Action: "Add",
		SaveRequest: true, SaveResponse: true,
		Params: func() interface{} { return &adm.MenuAddReq{} },
	})
	reg("PUT", "/admin/Menu/edit", audit.RouteOptions{
		Title: "菜单管理", BusinessType: model.BusinessUpdate,
		Controller: "SysMenu", Action: "Edit",
		SaveRequest: true, SaveResponse: true,
		Params: func() interface{} { return &adm.MenuEditReq{} },
	})
	reg("DELETE", "/admin/Menu/del", audit.RouteOptions{
		Title: "菜单管理", BusinessType: model.BusinessDelete,
		Controller: "SysMenu", Action: "Delete",
		SaveRequest: true, SaveResponse: true,
	})
	reg("PUT", "/admin/Menu/changeSort", audit.RouteOptions{
		Title: "菜单管理", BusinessType: model.BusinessUpdate,
		Controller: "SysMenu", Action: "ChangeSort",
		SaveRequest: true, SaveResponse: false,
		Params: func() interface{} { return &adm.MenuSortReq{} },
	})
	reg("DELETE", "/admin/OperLog/del", audit.RouteOptions{
		Title: "操作日志", BusinessType: model.BusinessDelete,
		Controller: "SysOperLog", Action: "Delete",
		SaveRequest: true, SaveResponse: false,
	})
	reg("DELETE", "/admin/OperLog/clean", audit.RouteOptions{
		Title: "操作日志", BusinessType: model.BusinessClean,
		Controller: "SysOperLog", Action: "Clean",
		SaveRequest: false, SaveResponse: false,
	})

	// 需认证 + 权限预加载 + 审计拦截 (admin 主业务分组)
	adminGrp := r.Group("/admin", sec.Auth(d.JWT, d.Logger), sec.Permission(d.Menu), operLog)
	{
		menuGroup := adminGrp.Group("/Menu")
		{
			menuGroup.GET("/list", sec.RequirePerm("system:menu:list"), h.Menu.List)
			menuGroup.GET("/treeList", sec.RequirePerm("system:menu:list"), h.Menu.TreeList)
			menuGroup.GET("/get", sec.RequirePerm("system:menu:query"), h.Menu.Get)
			menuGroup.GET("/perms", h.Menu.Perms)
			menuGroup.GET("/permMenus", h.Menu.PermMenus)
			menuGroup.GET("/roleMenuIds", sec.RequirePerm("system:menu:query"), h.Menu.RoleMenuIDs)
			menuGroup.POST("/add", sec.RequirePerm("system:menu:add"), h.Menu.Add)
			menuGroup.PUT("/edit", sec.RequirePerm("system:menu:edit"), h.Menu.Edit)
			menuGroup.PUT("/changeSort", sec.RequirePerm("system:menu:edit"), h.Menu.ChangeSort)
			menuGroup.DELETE("/del", sec.RequirePerm("system:menu:remove"), h.Menu.Delete)
		}
		cfgGroup := adminGrp.Group("/Config")
		{
			cfgGroup.GET("/getByKey", h.Config.GetByKey)
			cfgGroup.GET("/key/:key", h.Config.GetByKey)
			cfgGroup.GET("/value/:key", h.Config.GetValueByKey)
		}
		logGroup := adminGrp.Group("/OperLog")
		{
			logGroup.GET("/list", sec.RequirePerm("monitor:operlog:list"), h.OperLog.List)
			logGroup.DELETE("/del", sec.RequirePerm("monitor:operlog:remove"), h.OperLog.Delete)
			logGroup.DELETE("/clean", sec.RequirePerm("monitor:operlog:remove"), h.OperLog.Clean)
		}
		cacheGroup := adminGrp.Group("/Cache")
		{
			cacheGroup.GET("/metrics", h.Cache.Metrics)
			cacheGroup.GET("/reset", h.Cache.Reset)
		}
		dbgGroup := adminGrp.Group("/Debug")
		{
			dbgGroup.GET("/peekOperLog/:Second", h.Debug.PeekOperLog)
		}
	}

	// 统一 404
	r.NoRoute(func(c *gin.Context) {
		c.JSON(200, gin.H{"code": -8, "msg": "不存在", "data": gin.H{}})
	})
	return r
}
