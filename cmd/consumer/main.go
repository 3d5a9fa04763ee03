package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-sysadmin/internal/boot"
	"go-sysadmin/internal/config"
	"go-sysadmin/internal/consumer/operlog"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/repository/dao"

	"go.uber.org/zap"
)

// 审计队列消费进程：audit.queued=true 时与 cmd/api 配套部署
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.dev.yaml"
	}
	if _, err := os.Stat(cfgPath); err != nil {
		fallback := "configs/config.example.yaml"
		if _, err2 := os.Stat(fallback); err2 == nil {
			log.Printf("config %s not found, fallback to %s", cfgPath, fallback)
			cfgPath = fallback
		} else {
			log.Fatalf("config file not found: %s (fallback %s also missing)", cfgPath, fallback)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	db, err := boot.NewPostgres(cfg)
	if err != nil {
		logger.Fatal("postgres_init_failed", zap.Error(err))
	}

	consumer := operlog.NewConsumer(operlog.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OperLogTopic,
		GroupID: cfg.Kafka.GroupID,
	}, dao.NewSysOperLogDAO(db), logger)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("oper_log_consumer_start",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.OperLogTopic),
		zap.String("group", cfg.Kafka.GroupID))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("oper_log_consumer_stopped", zap.Error(err))
	}
	logger.Info("oper_log_consumer_exit")
}
