package admin

import (
	"net/http"

	"go-sysadmin/internal/pkg/cache"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct{ d Dependencies }

func NewCacheHandler(d Dependencies) *CacheHandler { return &CacheHandler{d: d} }

// Metrics 分层缓存命中统计，走 ResponseWrapper 包装
func (h *CacheHandler) Metrics(c *gin.Context) {
	layeredMetrics := interface{}(gin.H{})
	if lc, ok := h.d.Cache.(*cache.Layered); ok && lc != nil {
		layeredMetrics = lc.SnapshotMetrics()
	}
	c.Set("resp", gin.H{"code": 0, "msg": "success", "data": gin.H{"layered": layeredMetrics}})
	c.Status(http.StatusOK)
}

func (h *CacheHandler) Reset(c *gin.Context) {
	if lc, ok := h.d.Cache.(*cache.Layered); ok && lc != nil {
		lc.ResetMetrics()
	}
	c.Set("resp", gin.H{"code": 0, "msg": "success", "data": gin.H{}})
	c.Status(http.StatusOK)
}
