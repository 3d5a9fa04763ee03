package boot

import (
	"time"

	"go-sysadmin/internal/audit"
	"go-sysadmin/internal/config"
	"go-sysadmin/internal/discovery/etcd"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/mq/kafka"
	"go-sysadmin/internal/pkg/cache"
	"go-sysadmin/internal/pkg/iplocate"
	"go-sysadmin/internal/repository/dao"
	redisrepo "go-sysadmin/internal/repository/redis"
	jwtsec "go-sysadmin/internal/security/jwt"
	httpSrv "go-sysadmin/internal/server/http"
	obs "go-sysadmin/internal/server/http/middleware/observability"
	"go-sysadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"gorm.io/gorm"
)

// ProvideConfig wraps config.Load for wire with external path param
func ProvideConfig(path string) (*config.Config, error) { return config.Load(path) }

// ProvideLayeredCache 通用 LayeredCache（L1 本地 60s, L2 Redis）
func ProvideLayeredCache(r *redisrepo.Client) cache.Cache {
	return cache.NewLayered(cache.NewMemory(60*time.Second), cache.NewRedisAdapter(r))
}

func ProvideRegistry() *audit.Registry { return audit.NewRegistry() }

func ProvideBodyCodec(c *config.Config) *audit.BodyCodec {
	return audit.NewBodyCodec(c.Audit.AESKey)
}

// ProvideRecorder 审计落库方式由配置决定：queued 走 kafka，否则直写
func ProvideRecorder(c *config.Config, d *dao.SysOperLogDAO, p *kafka.Producer) service.Recorder {
	if c.Audit.Queued {
		return service.NewQueueRecorder(p)
	}
	return service.NewDBRecorder(d)
}

func ProvideLocator(c *config.Config, lc cache.Cache) obs.IPLocator {
	return iplocate.New(iplocate.Config{
		Enable:    c.IPLocate.Enable,
		Endpoint:  c.IPLocate.Endpoint,
		TimeoutMS: c.IPLocate.TimeoutMS,
	}, lc)
}

func ProvideRouter(j *jwtsec.Manager, l *logging.Logger, p *kafka.Producer, db *gorm.DB, r *redisrepo.Client, e *etcd.Client, c *config.Config, menu *service.MenuService, cfgSvc *service.ConfigService, operLog *service.OperLogService, rec service.Recorder, reg *audit.Registry, codec *audit.BodyCodec, loc obs.IPLocator) *gin.Engine {
	return httpSrv.NewRouter(httpSrv.RouterDeps{
		JWT: j, Logger: l, Producer: p, DB: db, Redis: r, Etcd: e, Cfg: c,
		Menu: menu, Config: cfgSvc, OperLog: operLog,
		Recorder: rec, Registry: reg, Codec: codec, Locator: loc,
	})
}

func ProvideApp(c *config.Config, l *logging.Logger, db *gorm.DB, r *redisrepo.Client, k *kafka.Producer, e *etcd.Client, j *jwtsec.Manager, engine *gin.Engine) *App {
	return NewApp(c, l, db, r, k, e, j, engine)
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	NewLogger,
	NewPostgres,
	NewRedis,
	NewKafkaProducer,
	NewEtcd,
	NewJWTManager,
	ProvideLayeredCache,
	ProvideRegistry,
	ProvideBodyCodec,
	ProvideRecorder,
	ProvideLocator,
	// DAO
	dao.NewSysMenuDAO,
	dao.NewSysOperLogDAO,
	dao.NewSysConfigDAO,
	// Service
	NewMenuServiceWithLayered,
	NewConfigServiceWithLayered,
	NewOperLogServiceDefault,
	ProvideRouter,
	ProvideApp,
)

// ===== Custom providers to inject layered cache =====
func NewMenuServiceWithLayered(d *dao.SysMenuDAO, lc cache.Cache) *service.MenuService {
	return service.NewMenuServiceWithCache(d, lc)
}
func NewConfigServiceWithLayered(d *dao.SysConfigDAO, lc cache.Cache) *service.ConfigService {
	return service.NewConfigServiceWithCache(d, lc)
}
func NewOperLogServiceDefault(d *dao.SysOperLogDAO) *service.OperLogService {
	return service.NewOperLogService(d)
}
