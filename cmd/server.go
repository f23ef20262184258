package main

import (
	"log"

	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/amankumarsingh77/video-insight/internal/server"
	"github.com/amankumarsingh77/video-insight/pkg/db/aws"
	"github.com/amankumarsingh77/video-insight/pkg/db/postgres"
	"github.com/amankumarsingh77/video-insight/pkg/db/redis"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	log.Println("Starting server")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	defer redisClient.Close()
	appLogger.Infof("redis connected")

	var s3Client *s3.Client
	if cfg.S3.ArchiveBucket != "" {
		s3Client, err = aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			appLogger.Warnf("could not connect to s3, artifact archiving disabled: %s", err)
			s3Client = nil
		}
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Fatalf("could not start server: %s", err)
	}
}
