package domain

import (
	"fmt"
	"time"
)

// DateLayout 是所有接口中日期的格式
const DateLayout = "2006-01-02"

type ShiftType string

const (
	ShiftMorning ShiftType = "Morning"
	ShiftEvening ShiftType = "Evening"
	ShiftNight   ShiftType = "Night"
)

func ParseShiftType(s string) (ShiftType, error) {
	switch ShiftType(s) {
	case ShiftMorning, ShiftEvening, ShiftNight:
		return ShiftType(s), nil
	default:
		return "", fmt.Errorf("未知的班次类型 %q", s)
	}
}

// Code 返回班次在月度班表导出中的单字符代号
func (st ShiftType) Code() string {
	switch st {
	case ShiftMorning:
		return "M"
	case ShiftEvening:
		return "E"
	case ShiftNight:
		return "N"
	default:
		return GridCodeEmpty
	}
}

const (
	// GridCodeVacation 表示当天有已批准的休假
	GridCodeVacation = "V"
	// GridCodeEmpty 表示当天没有任何记录
	GridCodeEmpty = "O"
)

type SelectionStatus string

const (
	SelectionApproved SelectionStatus = "approved"
)

type ShiftSelection struct {
	ID         int64           `json:"-"`
	EmployeeID string          `json:"employeeId"`
	Date       time.Time       `json:"date"`
	ShiftType  ShiftType       `json:"shift_type"`
	Status     SelectionStatus `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}
