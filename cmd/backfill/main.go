// 历史账单 related_group_id 一次性回填任务
// 用法: ./backfill -conf ../../configs/config.yaml
package main

import (
	"context"
	"flag"
	"time"

	"settlement-service/internal/conf"
	"settlement-service/internal/data"

	"github.com/gaoyong06/go-pkg/logger"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	_ "go.uber.org/automaxprocs"
)

var (
	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// 初始化配置
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	// 初始化日志 (使用 go-pkg/logger)
	logConfig := &logger.Config{
		Level:         "info",
		Format:        "json",
		Output:        "stdout",
		FilePath:      "logs/settlement-backfill.log",
		MaxSize:       100,
		MaxAge:        30,
		MaxBackups:    10,
		Compress:      true,
		EnableConsole: true,
	}

	loggerInstance := logger.NewLogger(logConfig)
	loggerInstance = log.With(loggerInstance,
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", "settlement-backfill",
	)
	logHelper := log.NewHelper(loggerInstance)

	// 手工装配：一次性任务不走 wire
	db, err := data.NewDB(&bc)
	if err != nil {
		panic(err)
	}
	rdb, err := data.NewRedis(&bc)
	if err != nil {
		panic(err)
	}
	sync := data.NewRedsync(rdb)

	d, cleanup, err := data.NewData(&bc, loggerInstance, db, rdb, nil)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	repo := data.NewBackfillRepo(d, sync, loggerInstance)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	rows, err := repo.BackfillRelatedGroupID(ctx)
	if err != nil {
		logHelper.Errorf("Backfill failed: %v", err)
		panic(err)
	}
	logHelper.Infof("Backfill completed: rows=%d", rows)
}
