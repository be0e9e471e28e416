package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Lee_Chat/internal/config"
	"Lee_Chat/internal/handler"
	"Lee_Chat/internal/middleware"
	"Lee_Chat/internal/pkg"
	"Lee_Chat/internal/repository/mysql"
	redisrepo "Lee_Chat/internal/repository/redis"
	"Lee_Chat/internal/router"
	"Lee_Chat/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("LEECHAT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := mysql.Open(cfg.MySQLDSN)
	if err != nil {
		log.Fatal("mysql connect failed", zap.Error(err))
	}
	if err = mysql.Migrate(db); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	rdb, err := redisrepo.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}

	// repositories
	groupRepo := mysql.NewGroupRepository(db)
	memberRepo := mysql.NewMemberRepository(db)
	messageRepo := mysql.NewMessageRepository(db)
	userRepo := mysql.NewUserRepository(db)
	outboxRepo := mysql.NewOutboxRepository(db)
	sessionRepo := redisrepo.NewSessionRepository(rdb)
	emailRepo := redisrepo.NewEmailRepository(rdb)

	// services
	issuer := pkg.NewTokenIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	gate := service.NewGate(memberRepo)
	emailSvc := service.NewEmailService(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, emailRepo)
	userSvc := service.NewUserService(userRepo, sessionRepo, emailSvc, issuer)
	groupSvc := service.NewGroupService(groupRepo, memberRepo, userRepo, gate)
	memberSvc := service.NewMemberService(memberRepo, groupRepo, userRepo, gate)
	inviteSvc := service.NewInviteService(groupRepo, memberRepo, userRepo, gate, cfg.InviteTTL)
	messageSvc := service.NewMessageService(messageRepo, groupRepo, userRepo, gate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 群组事件投递：kafka 未配置时退化为日志输出
	sender := service.LogSender(log)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		if err != nil {
			log.Fatal("kafka producer failed", zap.Error(err))
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(outboxRepo, sender, log)
	go relayer.Run(ctx)

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)

	r := router.New(router.Deps{
		User:     handler.NewUserHandler(userSvc, log),
		Email:    handler.NewEmailHandler(emailSvc, log),
		Group:    handler.NewGroupHandler(groupSvc, log),
		Member:   handler.NewMemberHandler(memberSvc, log),
		Invite:   handler.NewInviteHandler(inviteSvc, log),
		Message:  handler.NewMessageHandler(messageSvc, log),
		Issuer:   issuer,
		Sessions: sessionRepo,
		Metrics:  metrics,
	})

	log.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
