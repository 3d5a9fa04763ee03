package admin

import (
	"go-sysadmin/internal/config"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/pkg/cache"
	"go-sysadmin/internal/security/jwt"
	"go-sysadmin/internal/service"
)

// Dependencies admin 子包最小依赖集合
type Dependencies struct {
	Menu    *service.MenuService
	Config  *service.ConfigService
	OperLog *service.OperLogService
	JWT     *jwt.Manager
	AppCfg  *config.Config
	Cache   cache.Cache
	Logger  *logging.Logger
}
