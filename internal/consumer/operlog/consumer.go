package operlog

import (
	"context"
	"encoding/json"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/repository/dao"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer 审计队列消费端：拦截器经 QueueRecorder 投递的 SysOperLog
// 在这里落库。单条失败只记错误并继续，不中断消费（接受丢失策略）。
type Consumer struct {
	cfg    Config
	reader *kafkaGo.Reader
	dao    *dao.SysOperLogDAO
	logger *logging.Logger
}

func NewConsumer(cfg Config, d *dao.SysOperLogDAO, l *logging.Logger) *Consumer {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1, MaxBytes: 10e6,
	})
	return &Consumer{cfg: cfg, reader: reader, dao: d, logger: l}
}

func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		var rec model.SysOperLog
		if err := json.Unmarshal(m.Value, &rec); err != nil {
			c.logger.Error("oper_log_consume_unmarshal_failed", zap.Error(err))
			continue
		}
		rec.OperID = 0 // 主键由库生成
		if _, err := c.dao.Insert(ctx, &rec); err != nil {
			c.logger.Error("oper_log_consume_save_failed", zap.Error(err))
		}
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }
