package handler

import (
	adminh "go-sysadmin/internal/server/http/handler/admin"
	debugh "go-sysadmin/internal/server/http/handler/debug"
)

// HandlerSet 聚合 admin 子包的 handler，供 router 使用
type HandlerSet struct {
	Menu    *adminh.MenuHandler
	Config  *adminh.ConfigHandler
	OperLog *adminh.OperLogHandler
	Cache   *adminh.CacheHandler
	Debug   *debugh.Handler
}

func NewHandlerSet(ad adminh.Dependencies, dbg debugh.Dependencies) *HandlerSet {
	return &HandlerSet{
		Menu:    adminh.NewMenuHandler(ad),
		Config:  adminh.NewConfigHandler(ad),
		OperLog: adminh.NewOperLogHandler(ad),
		Cache:   adminh.NewCacheHandler(ad),
		Debug:   debugh.New(dbg),
	}
}
