package seed

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
	"github.com/Pro-fish0/my-shift/backend/internal/repository"
)

// ImportDirectory 从一份声明式的 JSON 名单文件导入员工。
// 文件内容是 DirectoryRecord 数组，已存在的员工会被跳过
func ImportDirectory(r *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开名单文件失败", "path", path, "error", err)
		return
	}
	defer file.Close()

	var records []domain.DirectoryRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		slog.Error("解析名单文件失败", "path", path, "error", err)
		return
	}

	employees := make([]*domain.Employee, 0, len(records))
	for _, record := range records {
		if record.EmployeeID == "" || record.Password == "" {
			slog.Error("名单记录缺少员工编号或密码", "record", record.EmployeeID)
			continue
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(record.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("生成密码哈希失败", "employeeId", record.EmployeeID, "error", err)
			continue
		}

		role := record.Role
		if role == "" {
			role = domain.RoleEmployee
		}

		employees = append(employees, &domain.Employee{
			EmployeeID:   record.EmployeeID,
			PasswordHash: string(passwordHash),
			Name:         record.Name,
			Role:         role,
			IsPriority:   record.IsPriority,
			Email:        record.Email,
		})
	}

	added, err := r.SyncDirectory(employees)
	if err != nil {
		slog.Error("导入员工名单失败", "error", err)
		return
	}

	slog.Info("员工名单导入完成", "total", len(records), "added", len(added))
}

// DefaultCapacities 是每个班次的默认容量
var DefaultCapacities = map[domain.ShiftType]int32{
	domain.ShiftMorning: 10,
	domain.ShiftEvening: 12,
	domain.ShiftNight:   8,
}

// SeedMonthCapacities 为某个月的每一天写入默认容量，
// 已存在的槽位会被原地覆盖
func SeedMonthCapacities(r *repository.Repository, month domain.Month) {
	start, end := month.Window()

	for date := start; date.Before(end); date = date.AddDate(0, 0, 1) {
		for shiftType, capacity := range DefaultCapacities {
			if _, err := r.SetCapacity(date, shiftType, capacity); err != nil {
				slog.Error("写入容量失败", "date", date.Format(domain.DateLayout), "shiftType", shiftType, "error", err)
				return
			}
		}
	}

	slog.Info("默认容量写入完成", "month", month.String())
}

// NextMonth 返回当前时间所在月份的下一个月，种子工具默认为下个月填容量
func NextMonth(now time.Time) domain.Month {
	return domain.MonthOf(now).Next()
}
