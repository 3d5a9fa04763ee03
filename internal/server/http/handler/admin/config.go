package admin

import (
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct{ d Dependencies }

func NewConfigHandler(d Dependencies) *ConfigHandler { return &ConfigHandler{d: d} }

// GetByKey 按 config_key 查询参数配置
func (h *ConfigHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		key = c.Query("configKey")
	}
	if key == "" {
		response.Error(c, retcode.PARAM_ERROR, "configKey required")
		return
	}
	cfg, err := h.d.Config.GetByKey(c.Request.Context(), key)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if cfg == nil {
		response.Error(c, retcode.NOT_FOUND, "参数未配置")
		return
	}
	response.Success(c, cfg)
}

// GetValueByKey 只取参数值，未配置返回空串
func (h *ConfigHandler) GetValueByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.Error(c, retcode.PARAM_ERROR, "configKey required")
		return
	}
	val, err := h.d.Config.GetValueByKey(c.Request.Context(), key)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, gin.H{"configValue": val})
}
