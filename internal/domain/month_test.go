package domain

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantEnd   string
		wantDays  int
	}{
		{"普通月份", 2024, 7, "2024-07-01", "2024-08-01", 31},
		{"跨年", 2024, 12, "2024-12-01", "2025-01-01", 31},
		{"闰年二月", 2024, 2, "2024-02-01", "2024-03-01", 29},
		{"平年二月", 2023, 2, "2023-02-01", "2023-03-01", 28},
		{"三十天", 2024, 6, "2024-06-01", "2024-07-01", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMonth(tt.year, tt.month)
			if err != nil {
				t.Fatalf("NewMonth: %v", err)
			}
			start, end := m.Window()
			if got := start.Format(DateLayout); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format(DateLayout); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
			if got := m.Days(); got != tt.wantDays {
				t.Errorf("days = %d, want %d", got, tt.wantDays)
			}
		})
	}
}

func TestNewMonthInvalid(t *testing.T) {
	if _, err := NewMonth(2024, 0); err == nil {
		t.Error("month 0 should be rejected")
	}
	if _, err := NewMonth(2024, 13); err == nil {
		t.Error("month 13 should be rejected")
	}
	if _, err := NewMonth(0, 7); err == nil {
		t.Error("year 0 should be rejected")
	}
}

func TestMonthOf(t *testing.T) {
	d := time.Date(2024, 7, 14, 15, 30, 0, 0, time.UTC)
	m := MonthOf(d)
	if m.Year != 2024 || m.Month != time.July {
		t.Errorf("MonthOf = %v", m)
	}
	if m.String() != "2024-07" {
		t.Errorf("String = %s", m.String())
	}
	if next := m.Next(); next.Year != 2024 || next.Month != time.August {
		t.Errorf("Next = %v", next)
	}
}
