package iplocate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-sysadmin/internal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupInternalAddresses(t *testing.T) {
	l := New(Config{Enable: true, Endpoint: "http://unreachable.invalid"}, nil)
	ctx := context.Background()

	assert.Equal(t, internalLocation, l.Lookup(ctx, "127.0.0.1"))
	assert.Equal(t, internalLocation, l.Lookup(ctx, "10.1.2.3"))
	assert.Equal(t, internalLocation, l.Lookup(ctx, "192.168.0.5"))
	assert.Equal(t, internalLocation, l.Lookup(ctx, "::1"))
	assert.Equal(t, internalLocation, l.Lookup(ctx, "0.0.0.0"))
}

func TestLookupInvalidAndDisabled(t *testing.T) {
	ctx := context.Background()
	l := New(Config{Enable: false}, nil)
	assert.Empty(t, l.Lookup(ctx, "not-an-ip"))
	assert.Empty(t, l.Lookup(ctx, "8.8.8.8"), "未启用外部查询返回空串")
}

func TestLookupRemoteAndCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "8.8.8.8", r.URL.Query().Get("ip"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"province":"北京","city":"北京","isp":"谷歌"}`))
	}))
	defer srv.Close()

	c := cache.NewMemory(time.Minute)
	l := New(Config{Enable: true, Endpoint: srv.URL, TimeoutMS: 1000}, c)
	ctx := context.Background()

	loc := l.Lookup(ctx, "8.8.8.8")
	assert.Equal(t, "北京 北京 谷歌", loc)
	// 第二次命中缓存，不再外呼
	loc = l.Lookup(ctx, "8.8.8.8")
	assert.Equal(t, "北京 北京 谷歌", loc)
	assert.Equal(t, 1, hits)
}

func TestLookupRemoteFailureBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	l := New(Config{Enable: true, Endpoint: srv.URL, TimeoutMS: 1000}, nil)
	assert.Empty(t, l.Lookup(context.Background(), "8.8.8.8"))
	require.NotNil(t, l.cli)
}
