// 手动触发预约提醒脚本
//
// 该功能已集成到主应用的后台定时任务中（默认每 5 分钟执行一次）。
// 此脚本仅用于手动触发，例如关闭了后台任务的部署。
//
// 用法: go run scripts/send_reminders.go

package main

import (
	"context"
	"log"
	"skillswap/internal/config"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/pkg/database"
	"skillswap/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	reminders := service.NewReminderService(
		repository.NewSessionRepository(db),
		service.NewNotifier(cfg),
		cfg.Reminder,
	)

	log.Println("手动触发预约提醒任务...")
	n, err := reminders.RunOnce(context.Background())
	if err != nil {
		log.Fatalf("发送提醒失败: %v", err)
	}
	log.Printf("完成！共发送 %d 条提醒", n)
}
