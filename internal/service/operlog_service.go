package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/mq/kafka"
	"go-sysadmin/internal/repository/dao"
)

// Recorder 审计落库协作方。拦截器只持有该接口，
// 同步直写还是经队列投递由装配决定；失败必须可被捕获，不得冲击请求本身。
type Recorder interface {
	Record(ctx context.Context, rec *model.SysOperLog) error
}

// OperLogStore 操作日志存储语义，由 dao.SysOperLogDAO 实现。
type OperLogStore interface {
	Insert(ctx context.Context, rec *model.SysOperLog) (int64, error)
	List(ctx context.Context, q dao.OperLogQuery, page, limit int) ([]model.SysOperLog, int64, error)
	Delete(ctx context.Context, operID int64) (int64, error)
	Clean(ctx context.Context) error
}

// OperLogService 管理端的日志查询/清理
type OperLogService struct {
	Store OperLogStore
}

func NewOperLogService(s OperLogStore) *OperLogService { return &OperLogService{Store: s} }

type OperLogListResult struct {
	List  []model.SysOperLog `json:"list"`
	Count int64              `json:"count"`
}

func (s *OperLogService) List(ctx context.Context, q dao.OperLogQuery, page, limit int) (OperLogListResult, error) {
	list, total, err := s.Store.List(ctx, q, page, limit)
	if err != nil {
		return OperLogListResult{}, err
	}
	return OperLogListResult{List: list, Count: total}, nil
}

func (s *OperLogService) Delete(ctx context.Context, operID int64) (int64, error) {
	return s.Store.Delete(ctx, operID)
}

func (s *OperLogService) Clean(ctx context.Context) error {
	return s.Store.Clean(ctx)
}

// DBRecorder 同步直写数据库
type DBRecorder struct {
	Store OperLogStore
}

func NewDBRecorder(s OperLogStore) *DBRecorder { return &DBRecorder{Store: s} }

func (r *DBRecorder) Record(ctx context.Context, rec *model.SysOperLog) error {
	n, err := r.Store.Insert(ctx, rec)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("oper log insert affected 0 rows")
	}
	return nil
}

// QueueRecorder 投递 kafka，由 cmd/consumer 异步落库
type QueueRecorder struct {
	Producer *kafka.Producer
}

func NewQueueRecorder(p *kafka.Producer) *QueueRecorder { return &QueueRecorder{Producer: p} }

func (r *QueueRecorder) Record(ctx context.Context, rec *model.SysOperLog) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal oper log: %w", err)
	}
	return r.Producer.Send(ctx, nil, b)
}
