// 手动触发过期作答清扫脚本
//
// 该功能已集成到主应用的后台定时任务中（每分钟自动执行一次）。
// 此脚本仅用于手动触发，例如服务长时间停机后积压了大量未关闭的作答。
//
// 用法: go run scripts/sweep_stale.go

package main

import (
	"log"

	"quizgen_backend/internal/config"
	"quizgen_backend/internal/repository"
	"quizgen_backend/internal/service"
	"quizgen_backend/pkg/database"
	"quizgen_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	svc := service.NewAttemptService(
		repository.NewAttemptRepository(db),
		repository.NewSessionRepository(db),
		repository.NewEventRepository(db),
		repository.NewQuizRepository(db),
		db,
	)

	log.Println("开始清扫过期作答...")
	if err := svc.SweepStaleAttempts(); err != nil {
		log.Fatalf("清扫失败: %v", err)
	}
	log.Println("清扫完成")
}
