package domain

import "time"

type ScheduleEntryKind string

const (
	EntryShift    ScheduleEntryKind = "shift"
	EntryVacation ScheduleEntryKind = "vacation"
)

// ScheduleEntry 是员工月度课表视图中的一项。
// 同一天既有班次又有休假时只会出现休假项，班次记录仍然保留在数据库中
type ScheduleEntry struct {
	Date      time.Time         `json:"date"`
	Kind      ScheduleEntryKind `json:"kind"`
	ShiftType ShiftType         `json:"shift_type,omitempty"`
	Status    string            `json:"status"`
}

// GridRow 是月度班表导出中的一行，Codes 固定 31 列
type GridRow struct {
	EmployeeID string
	Codes      [31]string
}
