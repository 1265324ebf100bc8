package main

import (
	"context"
	"log"
	"os"
	"strings"

	"Skill_Link/internal/model"
	"Skill_Link/internal/pkg"
	"Skill_Link/internal/repository/mysql"
	"Skill_Link/internal/repository/redis"
	"Skill_Link/internal/router"
	"Skill_Link/internal/service"

	"github.com/joho/godotenv"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env 不存在也没关系，直接用环境变量
	_ = godotenv.Load()

	dsn := envOr("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/skilllink?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(envOr("REDIS_ADDR", "127.0.0.1:6379"), os.Getenv("REDIS_PASSWORD"), 0); err != nil {
		panic(err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.CollabNeed{},
		&model.Project{},
		&model.Application{},
		&model.Connection{},
		&model.ConnectOutbox{},
		&model.Chat{},
		&model.ChatMember{},
		&model.Message{},
		&model.ProfileView{},
	); err != nil {
		panic(err)
	}

	// outbox 投递：配了 kafka 就发 kafka，否则打日志
	sender := service.LogSender
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   envOr("KAFKA_TOPIC", "skilllink.connections"),
		})
		if err != nil {
			log.Fatalf("init kafka: %v", err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewOutboxRelayer(sender).Run(relayCtx)

	// Gin
	r := router.InitRouter()
	if err := r.Run(":" + envOr("PORT", "8080")); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
