package main

import (
	"flowline/internal/actions"
	"flowline/internal/common"
	"flowline/internal/engine"
	"flowline/internal/events"
	"flowline/internal/server/dao"
	"flowline/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	common.InitConf()
	common.InitLog()
	config := common.GetConfig()
	logger := common.GetLogger()
	defer logger.Sync()

	if err := dao.InitDB(); err != nil {
		logger.Fatal("init database failed", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddr, Password: config.RedisPassword})
	defer redisClient.Close()
	publisher := events.NewRedisPublisher(redisClient)

	runDao := dao.NewRunDao()
	registry := actions.NewRegistry(worker.NewCredentialStore(dao.NewCredentialDao()))
	eng := engine.New(runDao, publisher, registry, logger, config.NodeTimeout)

	w := worker.New(
		asynq.RedisClientOpt{Addr: config.RedisAddr, Password: config.RedisPassword},
		config.WorkerConcurrency,
		dao.NewWorkflowDao(),
		runDao,
		eng,
		publisher,
		logger,
	)

	logger.Info("worker starting", zap.Int("concurrency", config.WorkerConcurrency))
	if err := w.Run(); err != nil {
		logger.Fatal("worker exited", zap.Error(err))
	}
}
