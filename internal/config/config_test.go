package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCfg(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const validCfg = `
http:
  addr: ":8080"
jwt:
  secret: "0123456789abcdef"
  expire_seconds: 3600
log:
  level: info
  format: json
`

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeCfg(t, validCfg))
	require.NoError(t, err)
	assert.Equal(t, "GoSysAdmin", c.AppMeta.Name)
	assert.Equal(t, "dev", c.AppMeta.Env)
	assert.Equal(t, "sys_oper_log", c.Kafka.OperLogTopic)
	assert.Equal(t, "sysadmin-operlog", c.Kafka.GroupID)
	assert.Equal(t, 500, c.IPLocate.TimeoutMS)
	assert.Equal(t, "jwt:jti:", c.Redis.JTIPrefix)
	assert.False(t, c.OTel.Enable)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing_http_addr", `
jwt:
  secret: "0123456789abcdef"
  expire_seconds: 3600
`},
		{"short_jwt_secret", `
http:
  addr: ":8080"
jwt:
  secret: "short"
  expire_seconds: 3600
`},
		{"queued_without_brokers", validCfg + `
audit:
  queued: true
`},
		{"iplocate_without_endpoint", validCfg + `
iplocate:
  enable: true
`},
		{"otel_without_endpoint", validCfg + `
otel:
  enable: true
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeCfg(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
