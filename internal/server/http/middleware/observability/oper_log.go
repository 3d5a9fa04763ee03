package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"go-sysadmin/internal/audit"
	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/metrics"
	"go-sysadmin/internal/service"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	maxBodyBytes  = 1 << 20 // 解密模式需要完整请求体
	maxFieldBytes = 4000    // oper_param / json_result 入库截断
	maxRespTee    = 4096
)

var sensitiveKeys = []string{"password", "passwd", "pwd", "new_password", "old_password", "token", "authorization"}

// IPLocator 归属地查询；约定失败返回空串，这里仍再套一层 recover 兜底。
type IPLocator interface {
	Lookup(ctx context.Context, ip string) string
}

type OperLogDeps struct {
	Registry *audit.Registry
	Recorder service.Recorder
	Codec    *audit.BodyCodec
	Locator  IPLocator // 可为 nil
	Logger   *logging.Logger
}

// OperLog 操作审计拦截器。
// 流程: 元数据查找 -> (可选)请求体解码 -> 参数绑定校验(失败短路业务 handler)
// -> 委派 -> 结果捕获/脱敏 -> 结构化诊断事件 -> 落库。
// 捕获与落库全程 best-effort：任何失败只记错误日志，不影响已发出的响应。
func OperLog(deps OperLogDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		opt, tracked := deps.Registry.Lookup(c.Request.Method, path)
		if !tracked {
			c.Next()
			return
		}
		start := time.Now()

		var bodyBytes []byte
		if c.Request.Body != nil {
			b, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
			bodyBytes = b
			c.Request.Body = io.NopCloser(bytes.NewReader(b))
		}

		// 路由声明了加密模式时先解码，再以明文流喂给绑定和 handler。
		// AES 未配置密钥 / 密文非法均判参数错误，不放行密文。
		var rejectMsg string
		if opt.Encrypt != audit.EncryptNone && deps.Codec != nil {
			plain, err := deps.Codec.Decode(opt.Encrypt, bodyBytes)
			if err != nil {
				deps.Logger.Error("oper_log_body_decode_failed",
					zap.String("path", path), zap.Error(err))
				rejectMsg = "请求体解码失败"
			} else {
				bodyBytes = plain
				c.Request.Body = io.NopCloser(bytes.NewReader(plain))
			}
		}

		bw := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		if rejectMsg == "" && opt.Params != nil {
			p := opt.Params()
			if err := bindParams(c, p); err != nil {
				rejectMsg = strings.Join(validationMessages(err), " | ")
			} else {
				c.Set(audit.ParamsKey, p)
				c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes)) // 绑定消耗了 body
			}
		}

		if rejectMsg != "" {
			// 参数错误短路：业务 handler 不执行，固定参数错误码
			response.Error(c, retcode.PARAM_ERROR, rejectMsg)
			c.Abort()
		} else {
			c.Next()
		}

		capture(c, deps, opt, start, bw, bodyBytes, rejectMsg)
	}
}

// capture 组装并落库 AuditRecord；自身 panic 也不外溢。
func capture(c *gin.Context, deps OperLogDeps, opt audit.RouteOptions, start time.Time, bw *bodyWriter, bodyBytes []byte, rejectMsg string) {
	defer func() {
		if r := recover(); r != nil {
			deps.Logger.Error("oper_log_capture_panic", zap.Any("panic", r))
		}
	}()

	method := strings.ToUpper(c.Request.Method)
	userName := c.GetString("user_name")
	if userName == "" {
		userName = c.Request.Header.Get("userName")
	}

	var jsonResult string
	if ct := bw.Header().Get("Content-Type"); strings.Contains(ct, "json") {
		jsonResult = truncateString(strings.TrimSpace(bw.buf.String()), maxFieldBytes)
	}

	operParam := requestParam(c, method, bodyBytes)

	ip := c.ClientIP()
	location := lookupLocation(c.Request.Context(), deps, ip)

	status := model.OperStatusOK
	errorMsg := rejectMsg
	// 后续链路短路（参数错误 / 权限拒绝）一律按失败记
	if rejectMsg != "" || bw.Status() >= 400 || c.IsAborted() {
		status = model.OperStatusFail
	}
	if len(c.Errors) > 0 {
		status = model.OperStatusFail
		if errorMsg == "" {
			errorMsg = truncateString(c.Errors.String(), 2000)
		}
	}

	rec := &model.SysOperLog{
		Title:         opt.Title,
		BusinessType:  opt.BusinessType,
		Method:        opt.MethodName(),
		RequestMethod: method,
		OperName:      userName,
		OperURL:       truncateString(c.Request.URL.RequestURI(), 255),
		OperIP:        ip,
		OperLocation:  location,
		OperParam:     operParam,
		JSONResult:    jsonResult,
		Status:        status,
		ErrorMsg:      errorMsg,
		OperTime:      time.Now(), // 完成时刻，非请求开始
		ElapsedMs:     time.Since(start).Milliseconds(),
	}

	// 脱敏开关：关闭保存时清空对应字段
	if !opt.SaveRequest {
		rec.OperParam = ""
	}
	if !opt.SaveResponse {
		rec.JSONResult = ""
	}

	// 诊断事件与落库解耦，审计存储不可用时运维侧仍有记录
	deps.Logger.Info("oper_log",
		zap.String("title", rec.Title),
		zap.String("method", rec.Method),
		zap.String("request_method", rec.RequestMethod),
		zap.String("oper_name", rec.OperName),
		zap.String("oper_url", rec.OperURL),
		zap.String("oper_ip", rec.OperIP),
		zap.Int("status", rec.Status),
		zap.Int64("elapsed_ms", rec.ElapsedMs),
	)

	if deps.Recorder == nil {
		return
	}
	if err := deps.Recorder.Record(c.Request.Context(), rec); err != nil {
		metrics.OperLogWriteFailures.Inc()
		deps.Logger.Error("oper_log_record_failed", zap.Error(err), zap.String("path", rec.OperURL))
		return
	}
	metrics.OperLogWrites.Inc()
}

func lookupLocation(ctx context.Context, deps OperLogDeps, ip string) (loc string) {
	defer func() {
		if r := recover(); r != nil {
			deps.Logger.Error("ip_locate_panic", zap.Any("panic", r))
			loc = ""
		}
	}()
	if deps.Locator == nil {
		return ""
	}
	return deps.Locator.Lookup(ctx, ip)
}

func bindParams(c *gin.Context, p interface{}) error {
	switch c.Request.Method {
	case "GET", "DELETE":
		return c.ShouldBindQuery(p)
	default:
		return c.ShouldBindJSON(p)
	}
}

// validationMessages 校验错误逐字段展开，其余错误原样单条。
func validationMessages(err error) []string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fe.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

// requestParam GET 取解码后的 query，其余取脱敏后的 body
func requestParam(c *gin.Context, method string, bodyBytes []byte) string {
	if method == "GET" {
		raw := c.Request.URL.RawQuery
		if raw == "" {
			return ""
		}
		if vals, err := url.ParseQuery(raw); err == nil {
			pairs := make([]string, 0, len(vals))
			for k, v := range vals {
				if len(v) > 0 {
					pairs = append(pairs, k+"="+truncateString(v[0], 100))
				}
			}
			return truncateString(strings.Join(pairs, "&"), maxFieldBytes)
		}
		return truncateString(raw, maxFieldBytes)
	}
	return truncateString(sanitizeJSON(bodyBytes), maxFieldBytes)
}

type bodyWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	if w.buf.Len() < maxRespTee {
		remain := maxRespTee - w.buf.Len()
		if len(b) > remain {
			w.buf.Write(b[:remain])
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// sanitizeJSON 敏感字段置 ***；非 JSON 原样返回
func sanitizeJSON(src []byte) string {
	if len(src) == 0 {
		return ""
	}
	if len(src) > maxRespTee {
		src = src[:maxRespTee]
	}
	var m interface{}
	if json.Unmarshal(src, &m) != nil {
		return string(src)
	}
	sanitizeValue(&m)
	b, err := json.Marshal(m)
	if err != nil {
		return string(src)
	}
	return string(b)
}

func sanitizeValue(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, vv := range val {
			lower := strings.ToLower(k)
			for _, s := range sensitiveKeys {
				if lower == s {
					val[k] = "***"
					goto NEXT
				}
			}
			sanitizeValue(&vv)
			val[k] = vv
		NEXT:
		}
	case []interface{}:
		for i, elem := range val {
			sanitizeValue(&elem)
			val[i] = elem
		}
	}
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
