package response

import (
	"go-sysadmin/internal/util/retcode"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// HTTP 层统一 200，业务结果看 code
func JSON(c *gin.Context, code int, msg string, data interface{}) {
	c.JSON(200, Body{Code: code, Msg: msg, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, retcode.SUCCESS, "success", data)
}

func Error(c *gin.Context, code int, msg string) {
	if code == retcode.SUCCESS {
		code = retcode.SERVICE_ERROR
	}
	JSON(c, code, msg, nil)
}
