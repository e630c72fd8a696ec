package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"circle_pipeline/internal/cache"
	"circle_pipeline/internal/config"
	myredis "circle_pipeline/internal/dao/redis"
	"circle_pipeline/internal/gateway/pipeline"
	"circle_pipeline/internal/handler"
	"circle_pipeline/internal/https_server"
	"circle_pipeline/internal/infrastructure/logger"
	"circle_pipeline/internal/infrastructure/mq"
	"circle_pipeline/internal/service"
	"circle_pipeline/internal/service/dispatch"
	"circle_pipeline/internal/service/relation"
	"circle_pipeline/pkg/constants"
	"circle_pipeline/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func NewServeCommand() *cobra.Command {
	var mode string
	var autoStart bool

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Run the pipeline client and the local API",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			conf := config.GetConfig()
			if mode != "" {
				conf.Mode = mode
			}
			if c.Flags().Changed("start") {
				conf.AutoStart = autoStart
			}
			return serve(conf)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Run mode: dev or release (overrides config)")
	cmd.Flags().BoolVar(&autoStart, "start", false, "Start the pipeline loop immediately")

	return cmd
}

func serve(conf *config.Config) error {
	// 1. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Printf("init logger failed: %v", err)
		return err
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功", zap.String("mode", conf.Mode))
	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. 参数校验翻译
	if err := handler.InitTrans("zh"); err != nil {
		return fmt.Errorf("init validator translations: %w", err)
	}

	// 3. 初始化 JWT
	if conf.JWTConfig.Secret == "" {
		zap.L().Warn("jwt secret is empty, local API tokens are insecure")
	}
	jwt.Init(conf.JWTConfig.Secret, conf.AccessTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// 4. 关系缓存
	store := cache.New()

	// 5. 通知出口
	hub := mq.NewHub(constants.CHANNEL_SIZE)
	sinks := []mq.Sink{hub}
	if conf.MessageMode == "kafka" {
		if conf.KafkaConfig.CreateTopic {
			if err := mq.CreateTopic(&conf.KafkaConfig); err != nil {
				zap.L().Warn("create kafka topic failed", zap.Error(err))
			}
		}
		kafkaSink, err := mq.NewKafkaSink(&conf.KafkaConfig, conf.Encoding)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		zap.L().Info("Kafka 通知出口初始化成功", zap.String("topic", conf.EventTopic))
	}
	if conf.RedisPublish {
		redisCache, err := myredis.Init(ctx, &conf.RedisConfig)
		if err != nil {
			return err
		}
		defer func() { _ = redisCache.Close() }()
		sinks = append(sinks, mq.NewRedisSink(redisCache, conf.RedisChannel, constants.NOTIFY_SNAPSHOT_TTL))
		zap.L().Info("Redis 通知出口初始化成功", zap.String("channel", conf.RedisChannel))
	}
	emitter := mq.NewEmitter(sinks...)

	// 6. 推送连接
	dispatcher := dispatch.NewDispatcher(store, emitter)
	manager := pipeline.NewManager(pipeline.OptionsFromConfig(&conf.PipelineConfig), dispatcher, pipeline.WithNotifier(emitter))
	if conf.PipelineConfig.AuthCookie != "" {
		manager.SetCredentials(conf.PipelineConfig.AuthCookie, conf.PipelineConfig.TwoFactor)
	}

	// 7. Service 与 HTTP 服务器
	svc := service.NewServices(gctx, service.Deps{
		Store:           store,
		Manager:         manager,
		Hub:             hub,
		StaleMaxAge:     conf.StaleMaxAge,
		BootstrapSecret: conf.BootstrapSecret,
		TokenExpiry:     jwt.Expiry(),
	})
	engine := https_server.Init(handler.NewHandlers(svc, hub), conf.Mode)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	evictor, err := relation.NewEvictor(store, &conf.CacheConfig)
	if err != nil {
		return err
	}

	// 8. 启动
	g.Go(func() error {
		zap.L().Info("HTTP 服务器启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return evictor.Run(gctx)
	})
	if conf.AutoStart {
		manager.Start(gctx)
	}

	err = g.Wait()
	// 等连接循环收尾结束后再关闭各通知出口
	manager.Stop()
	manager.Wait()
	zap.L().Info("服务器已关闭")
	return err
}
