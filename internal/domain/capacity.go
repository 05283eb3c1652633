package domain

import (
	"fmt"
	"time"
)

type ShiftCapacity struct {
	ID        int64     `json:"-"`
	Date      time.Time `json:"date"`
	ShiftType ShiftType `json:"shift_type"`
	Capacity  int32     `json:"capacity"`
}

// SlotAvailability 描述某个 (日期, 班次) 槽位的占用情况。
// 管理员把容量下调到已占用数量以下时 Available 可能为负数，
// 调用方应当把负数当作没有剩余名额处理
type SlotAvailability struct {
	Total     int32 `json:"total"`
	Taken     int32 `json:"taken"`
	Available int32 `json:"available"`
}

// MonthAvailability 的键为 "{日}_{班次}"，例如 "14_Morning"，
// 这是前端日历视图约定的格式
type MonthAvailability map[string]SlotAvailability

func SlotKeyOf(date time.Time, shiftType ShiftType) string {
	return fmt.Sprintf("%d_%s", date.Day(), shiftType)
}
