package dao

import (
	"context"
	"errors"
	"fmt"

	"go-sysadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type SysConfigDAO struct{ DB *gorm.DB }

func NewSysConfigDAO(db *gorm.DB) *SysConfigDAO { return &SysConfigDAO{DB: db} }

func (d *SysConfigDAO) tracer() trace.Tracer { return otel.Tracer("dao.sys_config") }

// SelectByKey 按 config_key 取参数，不存在返回 nil, nil。
func (d *SysConfigDAO) SelectByKey(ctx context.Context, key string) (*model.SysConfig, error) {
	ctx, span := d.tracer().Start(ctx, "SysConfigDAO.SelectByKey")
	defer span.End()
	var c model.SysConfig
	if err := d.DB.WithContext(ctx).Where("config_key = ?", key).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("select config key=%s: %w", key, err)
	}
	return &c, nil
}
