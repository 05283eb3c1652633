package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/Pro-fish0/my-shift/backend/internal/config"
)

func main() {
	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./migrations", "迁移文件所在目录")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := runMigration(action, migrationsDir, cfg.Database.DSN); err != nil {
		logger.Error("迁移失败", slog.String("action", action), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("迁移完成", slog.String("action", action))
}

func runMigration(action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("解析迁移目录 %s 失败: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("创建迁移实例失败: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			return err
		}
		return nil
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if err == migrate.ErrNilVersion {
				return nil
			}
			return err
		}
		slog.Info("当前迁移版本", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("不支持的操作 %q", action)
	}
}
