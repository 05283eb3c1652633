package scheduling

import (
	"fmt"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

// ValidationError 表示提交在结构上就不合法（数量不对、日期或班次类型无法解析），
// 不会产生任何写入
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ConflictError 表示员工在同一天已经有班次（包括本次提交内部的重复）
type ConflictError struct {
	Date time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s 当天已有班次", e.Date.Format(domain.DateLayout))
}

// CapacityExceededError 表示槽位已满
type CapacityExceededError struct {
	Date      time.Time
	ShiftType domain.ShiftType
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s %s 没有剩余名额", e.Date.Format(domain.DateLayout), e.ShiftType)
}

// NotFoundError 表示请求的槽位没有设置容量
type NotFoundError struct {
	Date      time.Time
	ShiftType domain.ShiftType
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s 没有设置容量", e.Date.Format(domain.DateLayout), e.ShiftType)
}
