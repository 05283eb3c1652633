package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Pro-fish0/my-shift/backend/internal/config"
	"github.com/Pro-fish0/my-shift/backend/internal/domain"
	"github.com/Pro-fish0/my-shift/backend/internal/repository"
	"github.com/Pro-fish0/my-shift/backend/internal/seed"
	"github.com/Pro-fish0/my-shift/backend/internal/utils"
)

func main() {
	var op int
	var n int
	var file string
	var year int
	var month int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 从 JSON 名单导入员工, 3: 写入默认容量)")
	flag.IntVar(&n, "n", 5, "要插入的随机员工数量")
	flag.StringVar(&file, "file", "./internal/seed/data/employees.json", "员工名单文件路径")
	flag.IntVar(&year, "year", 0, "容量所属年份，缺省为下个月")
	flag.IntVar(&month, "month", 0, "容量所属月份，缺省为下个月")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
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

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 1:
		// 插入随机员工，密码统一为随机生成后打印到日志
		for i := 0; i < n; i++ {
			password := utils.GenerateRandomPassword(12)
			employee, err := utils.GenerateRandomEmployee(password)
			if err != nil {
				logger.Error("生成随机员工失败", "error", err)
				continue
			}
			if err := repo.CreateEmployee(employee); err != nil {
				logger.Error("插入随机员工失败", "employeeId", employee.EmployeeID, "error", err)
				continue
			}
			logger.Info("已插入随机员工", "employeeId", employee.EmployeeID, "name", employee.Name, "password", password)
		}
	case 2:
		seed.ImportDirectory(repo, file)
	case 3:
		var m domain.Month
		if year != 0 && month != 0 {
			m, err = domain.NewMonth(year, month)
			if err != nil {
				logger.Error("月份参数无效", "error", err)
				return
			}
		} else {
			m = seed.NextMonth(time.Now())
		}
		seed.SeedMonthCapacities(repo, m)
	default:
		logger.Error("未知的操作", "op", op)
	}
}
