package main

import (
	"flowline/internal/common"
	"flowline/internal/server/dao"
	"flowline/internal/server/handler"
	"flowline/internal/server/middleware"
	"flowline/internal/server/scheduler"
	"flowline/pkg/queue"

	"github.com/gin-gonic/gin"
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

	redisOpt := asynq.RedisClientOpt{Addr: config.RedisAddr, Password: config.RedisPassword}
	runQueue := queue.NewClient(redisOpt)
	defer runQueue.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddr, Password: config.RedisPassword})
	defer redisClient.Close()

	handler.Init(runQueue, redisClient)

	sched := scheduler.GetSchedulerService()
	if err := sched.LoadAllSchedules(); err != nil {
		logger.Error("load cron schedules failed", zap.Error(err))
	}
	go func() {
		if err := sched.Start(); err != nil {
			logger.Fatal("cron scheduler failed", zap.Error(err))
		}
	}()

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/register", handler.UserRegister)
	r.POST("/login", handler.UserLogin)
	r.POST("/webhook/:id", handler.Webhook)

	authed := r.Group("/", middleware.JWTAuthMiddleware())
	authed.POST("/workflow", handler.CreateWorkflow)
	authed.POST("/workflow/:id", handler.UpdateWorkflow)
	authed.DELETE("/workflow/:id", handler.DeleteWorkflow)
	authed.POST("/workflow/:id/enable", handler.SetWorkflowEnabled(true))
	authed.POST("/workflow/:id/disable", handler.SetWorkflowEnabled(false))
	authed.GET("/workflow", handler.ListWorkflows)
	authed.GET("/workflow/:id", handler.GetWorkflow)
	authed.GET("/workflow/:id/runs", handler.ListWorkflowRuns)
	authed.GET("/run/:id", handler.GetRunDetail)
	authed.POST("/trigger", handler.TriggerWorkflow)
	authed.POST("/credential", handler.UpsertCredential)
	authed.GET("/credential", handler.ListCredentials)
	authed.DELETE("/credential/:platform", handler.DeleteCredential)
	authed.GET("/events/:id", handler.StreamEvents)

	logger.Info("server listening", zap.String("addr", ":8080"))
	var err error
	if config.CertPath != "" && config.KeyPath != "" {
		err = r.RunTLS(":8080", config.CertPath, config.KeyPath)
	} else {
		err = r.Run(":8080")
	}
	if err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
