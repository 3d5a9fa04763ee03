package dao

import (
	"context"
	"fmt"

	"go-sysadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// OperLogQuery 操作日志列表过滤条件
type OperLogQuery struct {
	Title    string // 模块标题模糊
	OperName string // 操作人模糊
	Status   *int   // 精确
}

type SysOperLogDAO struct{ DB *gorm.DB }

func NewSysOperLogDAO(db *gorm.DB) *SysOperLogDAO { return &SysOperLogDAO{DB: db} }

func (d *SysOperLogDAO) tracer() trace.Tracer { return otel.Tracer("dao.sys_oper_log") }

// Insert 单条写入，返回影响行数；审计链路要求失败可被捕获而非抛出。
func (d *SysOperLogDAO) Insert(ctx context.Context, rec *model.SysOperLog) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysOperLogDAO.Insert")
	defer span.End()
	res := d.DB.WithContext(ctx).Create(rec)
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, res.Error.Error())
		return 0, fmt.Errorf("insert oper log: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (d *SysOperLogDAO) List(ctx context.Context, q OperLogQuery, page, limit int) ([]model.SysOperLog, int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysOperLogDAO.List")
	defer span.End()
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	qb := d.DB.WithContext(ctx).Model(&model.SysOperLog{})
	if q.Title != "" {
		qb = qb.Where("title ILIKE ?", "%"+q.Title+"%")
	}
	if q.OperName != "" {
		qb = qb.Where("oper_name ILIKE ?", "%"+q.OperName+"%")
	}
	if q.Status != nil {
		qb = qb.Where("status = ?", *q.Status)
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("count oper logs: %w", err)
	}
	var list []model.SysOperLog
	if err := qb.Order("oper_time DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("list oper logs: %w", err)
	}
	return list, total, nil
}

func (d *SysOperLogDAO) Delete(ctx context.Context, operID int64) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysOperLogDAO.Delete")
	defer span.End()
	res := d.DB.WithContext(ctx).Delete(&model.SysOperLog{}, "oper_id = ?", operID)
	if res.Error != nil {
		span.RecordError(res.Error)
		span.SetStatus(codes.Error, res.Error.Error())
		return 0, fmt.Errorf("delete oper log id=%d: %w", operID, res.Error)
	}
	return res.RowsAffected, nil
}

// Clean 清空操作日志
func (d *SysOperLogDAO) Clean(ctx context.Context) error {
	ctx, span := d.tracer().Start(ctx, "SysOperLogDAO.Clean")
	defer span.End()
	if err := d.DB.WithContext(ctx).Exec("TRUNCATE TABLE sys_oper_log").Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("clean oper logs: %w", err)
	}
	return nil
}
