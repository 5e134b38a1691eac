package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/assistant"
	"github.com/nova-maldives/the-hub/backend/internal/config"
	"github.com/nova-maldives/the-hub/backend/internal/handler"
	"github.com/nova-maldives/the-hub/backend/internal/mailer"
	"github.com/nova-maldives/the-hub/backend/internal/repository"
	"github.com/nova-maldives/the-hub/backend/internal/seed"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "time/tzdata"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	loc, err := time.LoadLocation(cfg.Clock.Timezone)
	if err != nil {
		logger.Error("无法加载时区", "timezone", cfg.Clock.Timezone, "error", err)
		return
	}
	now := func() time.Time { return time.Now().In(loc) }

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 确保数据库中存在初始管理员和默认类别
	 **********************************************/
	created, err := seed.EnsureInitialAdmin(repo, seed.Admin{
		Username: cfg.InitialAdmin.Username,
		Password: cfg.InitialAdmin.Password,
		Name:     cfg.InitialAdmin.FullName,
		Email:    cfg.InitialAdmin.Email,
	})
	if err != nil {
		logger.Error("无法创建初始管理员", "error", err)
		return
	}
	if created {
		logger.Info("已创建初始管理员", "username", cfg.InitialAdmin.Username)
	}

	if err := repo.EnsureTaskCategories(repository.DefaultTaskCategories); err != nil {
		logger.Error("无法写入默认任务类别", "error", err)
		return
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	// 声明队列
	_, err = ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	publisher := mailer.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	redisCtx, redisCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer redisCancel()
	if err := rdb.Ping(redisCtx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}

	/**********************************************
	 * 创建文本生成和天气服务
	 **********************************************/
	// 没有配置 API key 时 assistant 只返回固定文本
	var generator assistant.Generator
	if cfg.GenAI.APIKey != "" {
		g, err := assistant.NewGenAIGenerator(context.Background(), cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			logger.Error("无法创建 genai 客户端", "error", err)
			return
		}
		generator = g
	} else {
		logger.Warn("未配置 GENAI_API_KEY，交接摘要和建议将使用默认文本")
	}

	asst := assistant.NewAssistant(generator, rdb, assistant.Options{
		ResortName:    cfg.GenAI.ResortName,
		Timeout:       time.Duration(cfg.GenAI.Timeout) * time.Second,
		SuggestionTTL: time.Duration(cfg.GenAI.SuggestionTTL) * time.Second,
	})
	weather := assistant.NewWeatherClient(cfg.Weather.BaseURL, cfg.Weather.Latitude, cfg.Weather.Longitude, time.Duration(cfg.Weather.Timeout)*time.Second)

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, publisher, rdb, asst, weather, now)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
