package observability

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-sysadmin/internal/audit"
	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/util/retcode"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRecorder struct {
	recs []*model.SysOperLog
}

func (r *captureRecorder) Record(_ context.Context, rec *model.SysOperLog) error {
	r.recs = append(r.recs, rec)
	return nil
}

type panicLocator struct{}

func (panicLocator) Lookup(context.Context, string) string { panic("locator exploded") }

type addReq struct {
	MenuName string `json:"menuName" binding:"required"`
	MenuType string `json:"menuType" binding:"required,oneof=M C F L"`
	Password string `json:"password"`
}

func newAuditEngine(t *testing.T, reg *audit.Registry, rec *captureRecorder, loc IPLocator) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OperLog(OperLogDeps{
		Registry: reg,
		Recorder: rec,
		Codec:    audit.NewBodyCodec(""),
		Locator:  loc,
		Logger:   logging.Nop(),
	}))
	calls := 0
	handler := func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"code": retcode.SUCCESS, "msg": "success", "data": gin.H{"ok": true}})
	}
	r.POST("/admin/Menu/add", handler)
	r.GET("/admin/Menu/list", handler)
	r.POST("/untracked", handler)
	return r, &calls
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("userName", "admin")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOperLogUntrackedPassthrough(t *testing.T) {
	rec := &captureRecorder{}
	r, calls := newAuditEngine(t, audit.NewRegistry(), rec, nil)
	w := doJSON(r, "POST", "/untracked", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
	assert.Empty(t, rec.recs, "未登记路由不落库")
}

func TestOperLogValidationShortCircuit(t *testing.T) {
	reg := audit.NewRegistry()
	reg.Register("POST", "/admin/Menu/add", audit.RouteOptions{
		Title: "菜单管理", BusinessType: model.BusinessInsert,
		Controller: "SysMenu", Action: "Add",
		SaveRequest: true,
		Params:      func() interface{} { return &addReq{} },
	})
	rec := &captureRecorder{}
	r, calls := newAuditEngine(t, reg, rec, nil)

	// menuName 缺失 + menuType 非法，两条校验错误
	w := doJSON(r, "POST", "/admin/Menu/add", `{"menuType":"X"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *calls, "校验失败不得执行业务 handler")

	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, retcode.PARAM_ERROR, body.Code)
	assert.Contains(t, body.Msg, " | ", "多条错误用 | 连接")

	require.Len(t, rec.recs, 1)
	got := rec.recs[0]
	assert.Equal(t, model.OperStatusFail, got.Status)
	assert.Equal(t, "SysMenu.Add()", got.Method)
	assert.Contains(t, got.ErrorMsg, " | ")
}

func TestOperLogSuccessRedaction(t *testing.T) {
	reg := audit.NewRegistry()
	reg.Register("POST", "/admin/Menu/add", audit.RouteOptions{
		Title: "菜单管理", BusinessType: model.BusinessInsert,
		Controller: "SysMenu", Action: "Add",
		SaveRequest: true, SaveResponse: false,
		Params: func() interface{} { return &addReq{} },
	})
	rec := &captureRecorder{}
	r, calls := newAuditEngine(t, reg, rec, nil)

	w := doJSON(r, "POST", "/admin/Menu/add", `{"menuName":"菜单管理","menuType":"C","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)

	require.Len(t, rec.recs, 1)
	got := rec.recs[0]
	assert.Equal(t, model.OperStatusOK, got.Status)
	assert.Equal(t, "admin", got.OperName)
	assert.Empty(t, got.JSONResult, "SaveResponse=false 不留响应")
	assert.Contains(t, got.OperParam, "菜单管理")
	assert.Contains(t, got.OperParam, "***", "敏感字段置 ***")
	assert.NotContains(t, got.OperParam, "s3cret")
	assert.GreaterOrEqual(t, got.ElapsedMs, int64(0))
}

func TestOperLogLocatorPanicContained(t *testing.T) {
	reg := audit.NewRegistry()
	reg.Register("GET", "/admin/Menu/list", audit.RouteOptions{
		Title: "菜单管理", Controller: "SysMenu", Action: "List",
		SaveRequest: true, SaveResponse: true,
	})
	rec := &captureRecorder{}
	r, calls := newAuditEngine(t, reg, rec, panicLocator{})

	w := doJSON(r, "GET", "/admin/Menu/list?menuName=系统", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)

	require.Len(t, rec.recs, 1, "归属地查询 panic 不影响落库")
	got := rec.recs[0]
	assert.Empty(t, got.OperLocation)
	assert.Equal(t, model.OperStatusOK, got.Status)
	assert.Contains(t, got.OperParam, "menuName=")
}

func TestOperLogBase64Body(t *testing.T) {
	reg := audit.NewRegistry()
	reg.Register("POST", "/admin/Menu/add", audit.RouteOptions{
		Title: "菜单管理", Controller: "SysMenu", Action: "Add",
		Encrypt:     audit.EncryptBase64,
		SaveRequest: true,
		Params:      func() interface{} { return &addReq{} },
	})
	rec := &captureRecorder{}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OperLog(OperLogDeps{
		Registry: reg, Recorder: rec, Codec: audit.NewBodyCodec(""), Logger: logging.Nop(),
	}))
	var seen string
	r.POST("/admin/Menu/add", func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		seen = string(b)
		c.JSON(http.StatusOK, gin.H{"code": retcode.SUCCESS})
	})

	plain := `{"menuName":"目录","menuType":"M"}`
	enc := base64.StdEncoding.EncodeToString([]byte(plain))
	req := httptest.NewRequest("POST", "/admin/Menu/add", bytes.NewReader([]byte(enc)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, plain, seen, "handler 读到的应是解码后的明文")
	require.Len(t, rec.recs, 1)
	assert.Equal(t, model.OperStatusOK, rec.recs[0].Status)

	// 非法密文：短路，handler 不执行
	seen = ""
	req2 := httptest.NewRequest("POST", "/admin/Menu/add", bytes.NewReader([]byte("!!bad!!")))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &body))
	assert.Equal(t, retcode.PARAM_ERROR, body.Code)
	assert.Empty(t, seen)
}

func TestSanitizeJSONNested(t *testing.T) {
	src := `{"user":{"name":"a","password":"x"},"list":[{"token":"t"}],"keep":1}`
	out := sanitizeJSON([]byte(src))
	assert.Contains(t, out, `"password":"***"`)
	assert.Contains(t, out, `"token":"***"`)
	assert.Contains(t, out, `"keep":1`)
	assert.NotContains(t, out, `"x"`)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 10))
	assert.Equal(t, "ab", truncateString("abcd", 2))
}
