package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

// Pick 是提交中的一项班次选择，日期和班次类型以字符串形式到达，
// 由引擎负责解析和校验
type Pick struct {
	Date      string `json:"date"`
	ShiftType string `json:"shift_type"`
}

// SlotKey 标识一个 (日期, 班次) 槽位
type SlotKey struct {
	Date      time.Time
	ShiftType domain.ShiftType
}

// SlotState 是事务内锁定槽位后读到的状态
type SlotState struct {
	Capacity int32
	Taken    int32
	Found    bool
}

// TxStore 是一次提交事务内可用的存储能力。
// LockSlot 必须在返回前锁住该槽位的容量记录，
// 使得对同一槽位的检查和写入在并发提交之间被串行化
type TxStore interface {
	LockSlot(ctx context.Context, key SlotKey) (SlotState, error)
	HasSelection(ctx context.Context, employeeID string, date time.Time) (bool, error)
	InsertSelection(ctx context.Context, sel *domain.ShiftSelection) error
}

// Store 由 repository 实现，fn 返回错误时整个事务回滚
type Store interface {
	RunInTx(ctx context.Context, fn func(tx TxStore) error) error
}

// Engine 负责校验并原子地提交一名员工的月度班次选择。
// 容量检查不允许依赖任何进程内缓存，必须以事务内锁定后的计数为准
type Engine struct {
	store Store
	quota int
}

func NewEngine(store Store, quota int) *Engine {
	return &Engine{
		store: store,
		quota: quota,
	}
}

// SubmitSchedule 提交一批班次选择，要么全部写入要么全部不写入。
// 返回的错误指向按提交顺序第一个不合法的选择
func (e *Engine) SubmitSchedule(ctx context.Context, employeeID string, picks []Pick) error {
	if employeeID == "" {
		return &ValidationError{Reason: "缺少员工编号"}
	}
	if len(picks) != e.quota {
		return &ValidationError{Reason: fmt.Sprintf("必须选择 %d 个班次，实际提交了 %d 个", e.quota, len(picks))}
	}

	keys := make([]SlotKey, len(picks))
	for i, pick := range picks {
		date, err := time.Parse(domain.DateLayout, pick.Date)
		if err != nil {
			return &ValidationError{Reason: fmt.Sprintf("日期 %q 格式错误", pick.Date)}
		}
		shiftType, err := domain.ParseShiftType(pick.ShiftType)
		if err != nil {
			return &ValidationError{Reason: err.Error()}
		}
		keys[i] = SlotKey{Date: date, ShiftType: shiftType}
	}

	return e.store.RunInTx(ctx, func(tx TxStore) error {
		// 按固定顺序锁定本次提交涉及的所有槽位，避免并发提交之间互相死锁
		states := make(map[SlotKey]SlotState, len(keys))
		for _, key := range sortedUniqueKeys(keys) {
			state, err := tx.LockSlot(ctx, key)
			if err != nil {
				return err
			}
			states[key] = state
		}

		// 逐项检查，计数要把本次提交中排在前面的同槽位选择也算进去
		batchDates := make(map[time.Time]struct{}, len(keys))
		batchTaken := make(map[SlotKey]int32, len(keys))
		for _, key := range keys {
			if _, dup := batchDates[key.Date]; dup {
				return &ConflictError{Date: key.Date}
			}
			exists, err := tx.HasSelection(ctx, employeeID, key.Date)
			if err != nil {
				return err
			}
			if exists {
				return &ConflictError{Date: key.Date}
			}

			state := states[key]
			if !state.Found {
				return &NotFoundError{Date: key.Date, ShiftType: key.ShiftType}
			}
			if state.Taken+batchTaken[key] >= state.Capacity {
				return &CapacityExceededError{Date: key.Date, ShiftType: key.ShiftType}
			}

			batchDates[key.Date] = struct{}{}
			batchTaken[key]++
		}

		for _, key := range keys {
			sel := &domain.ShiftSelection{
				EmployeeID: employeeID,
				Date:       key.Date,
				ShiftType:  key.ShiftType,
				Status:     domain.SelectionApproved,
			}
			if err := tx.InsertSelection(ctx, sel); err != nil {
				return err
			}
		}

		return nil
	})
}

func sortedUniqueKeys(keys []SlotKey) []SlotKey {
	seen := make(map[SlotKey]struct{}, len(keys))
	unique := make([]SlotKey, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}

	sort.Slice(unique, func(i, j int) bool {
		if !unique[i].Date.Equal(unique[j].Date) {
			return unique[i].Date.Before(unique[j].Date)
		}
		return unique[i].ShiftType < unique[j].ShiftType
	})

	return unique
}
