package admin

import (
	"go-sysadmin/internal/repository/dao"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type OperLogHandler struct{ d Dependencies }

func NewOperLogHandler(d Dependencies) *OperLogHandler { return &OperLogHandler{d: d} }

func (h *OperLogHandler) List(c *gin.Context) {
	req := bound[OperLogListReq](c)
	if req == nil {
		req = &OperLogListReq{}
		if err := c.ShouldBindQuery(req); err != nil {
			response.Error(c, retcode.PARAM_ERROR, err.Error())
			return
		}
	}
	page, limit := req.Page, req.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	res, err := h.d.OperLog.List(c.Request.Context(),
		dao.OperLogQuery{Title: req.Title, OperName: req.OperName, Status: req.Status}, page, limit)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, res)
}

func (h *OperLogHandler) Delete(c *gin.Context) {
	id := qInt64(c, "operId")
	if id <= 0 {
		response.Error(c, retcode.PARAM_ERROR, "operId required")
		return
	}
	n, err := h.d.OperLog.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	if n == 0 {
		response.Error(c, retcode.DELETE_FAILED, "删除失败")
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// Clean 清空全部操作日志
func (h *OperLogHandler) Clean(c *gin.Context) {
	if err := h.d.OperLog.Clean(c.Request.Context()); err != nil {
		response.Error(c, retcode.SERVICE_ERROR, err.Error())
		return
	}
	response.Success(c, gin.H{"ok": true})
}
