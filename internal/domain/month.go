package domain

import (
	"fmt"
	"time"
)

// Month 标识一个月度周期，所有按月的查询和删除都以
// [月初, 下月初) 这个半开区间为准
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func NewMonth(year int, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("月份 %d 不合法", month)
	}
	if year < 1 {
		return Month{}, fmt.Errorf("年份 %d 不合法", year)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// Window 返回 [月初, 下月初)
func (m Month) Window() (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Days 返回本月的天数
func (m Month) Days() int {
	start, end := m.Window()
	return int(end.Sub(start).Hours() / 24)
}

func (m Month) Next() Month {
	start, _ := m.Window()
	return MonthOf(start.AddDate(0, 1, 0))
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
