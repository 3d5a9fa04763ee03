package logging

import (
	"context"

	"go.uber.org/zap"
)

type Logger struct {
	*zap.Logger
}

func New(level, format string) (*Logger, error) {
	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	}
	lg, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{lg}, nil
}

// Nop 测试用
func Nop() *Logger { return &Logger{zap.NewNop()} }

type ctxKey struct{}

// IntoContext 把带字段 logger 放入 context，FromContext 取出；未注入时返回 Nop
func IntoContext(ctx context.Context, lg *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lg)
}

func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if lg, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && lg != nil {
			return lg
		}
	}
	return zap.NewNop()
}

// WithContext 附带请求上下文里的 trace_id / user_id
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return l.Logger
	}
	fields := make([]zap.Field, 0, 2)
	if v := ctx.Value("trace_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			fields = append(fields, zap.String("trace_id", s))
		}
	}
	if v := ctx.Value("user_id"); v != nil {
		if id, ok := v.(int64); ok && id > 0 {
			fields = append(fields, zap.Int64("user_id", id))
		}
	}
	if len(fields) == 0 {
		return l.Logger
	}
	return l.Logger.With(fields...)
}
