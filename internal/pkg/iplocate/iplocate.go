package iplocate

import (
	"context"
	"net"
	"strings"
	"time"

	"go-sysadmin/internal/pkg/cache"

	"github.com/go-resty/resty/v2"
)

// 内网/本机地址统一归属，不发起外部查询
const internalLocation = "内网IP"

type Config struct {
	Enable    bool
	Endpoint  string // 形如 https://ip.example.com/query，追加 ?ip=x.x.x.x
	TimeoutMS int
}

// Locator IP 归属地查询。约定 best-effort：任何失败（含非法 IP、超时、
// 响应不可解析）一律返回空串，绝不向审计链路抛错。
type Locator struct {
	cfg   Config
	cli   *resty.Client
	cache cache.Cache // 可为 nil；命中 key iploc:<ip>
}

type lookupResp struct {
	Addr     string `json:"addr"`
	Province string `json:"province"`
	City     string `json:"city"`
	ISP      string `json:"isp"`
}

func New(cfg Config, c cache.Cache) *Locator {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	cli := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0) // 审计旁路，不值得重试
	return &Locator{cfg: cfg, cli: cli, cache: c}
}

// Lookup 返回人类可读归属地；空串表示未知。
func (l *Locator) Lookup(ctx context.Context, ip string) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified() {
		return internalLocation
	}
	if !l.cfg.Enable || l.cfg.Endpoint == "" {
		return ""
	}
	key := "iploc:" + parsed.String()
	if l.cache != nil {
		if v, _ := l.cache.Get(ctx, key); v != "" {
			return v
		}
	}
	var out lookupResp
	resp, err := l.cli.R().
		SetContext(ctx).
		SetQueryParam("ip", parsed.String()).
		SetResult(&out).
		Get(l.cfg.Endpoint)
	if err != nil || !resp.IsSuccess() {
		return ""
	}
	loc := out.Addr
	if loc == "" {
		parts := make([]string, 0, 3)
		for _, p := range []string{out.Province, out.City, out.ISP} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		loc = strings.Join(parts, " ")
	}
	if loc != "" && l.cache != nil {
		_ = l.cache.SetEX(ctx, key, loc, 12*time.Hour)
	}
	return loc
}
