package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

// fakeStore 用互斥锁串行化整个事务，模拟数据库的行锁语义：
// 事务内看到的计数在提交前不会被其他提交修改
type fakeStore struct {
	mu         sync.Mutex
	capacities map[SlotKey]int32
	selections []*domain.ShiftSelection
}

func newFakeStore() *fakeStore {
	return &fakeStore{capacities: make(map[SlotKey]int32)}
}

func (s *fakeStore) setCapacity(date string, shiftType domain.ShiftType, capacity int32) {
	d, _ := time.Parse(domain.DateLayout, date)
	s.capacities[SlotKey{Date: d, ShiftType: shiftType}] = capacity
}

func (s *fakeStore) addSelection(employeeID, date string, shiftType domain.ShiftType) {
	d, _ := time.Parse(domain.DateLayout, date)
	s.selections = append(s.selections, &domain.ShiftSelection{
		EmployeeID: employeeID,
		Date:       d,
		ShiftType:  shiftType,
		Status:     domain.SelectionApproved,
	})
}

func (s *fakeStore) countApproved(key SlotKey) int32 {
	var n int32
	for _, sel := range s.selections {
		if sel.Date.Equal(key.Date) && sel.ShiftType == key.ShiftType && sel.Status == domain.SelectionApproved {
			n++
		}
	}
	return n
}

type fakeTx struct {
	store   *fakeStore
	pending []*domain.ShiftSelection
}

func (tx *fakeTx) LockSlot(_ context.Context, key SlotKey) (SlotState, error) {
	capacity, found := tx.store.capacities[key]
	if !found {
		return SlotState{}, nil
	}
	return SlotState{Capacity: capacity, Taken: tx.store.countApproved(key), Found: true}, nil
}

func (tx *fakeTx) HasSelection(_ context.Context, employeeID string, date time.Time) (bool, error) {
	for _, sel := range tx.store.selections {
		if sel.EmployeeID == employeeID && sel.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (tx *fakeTx) InsertSelection(_ context.Context, sel *domain.ShiftSelection) error {
	sel.CreatedAt = time.Now()
	tx.pending = append(tx.pending, sel)
	return nil
}

func (s *fakeStore) RunInTx(_ context.Context, fn func(tx TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &fakeTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	s.selections = append(s.selections, tx.pending...)
	return nil
}

func picksFor(dates []string, shiftType string) []Pick {
	picks := make([]Pick, len(dates))
	for i, d := range dates {
		picks[i] = Pick{Date: d, ShiftType: shiftType}
	}
	return picks
}

func TestSubmitScheduleWrongBatchSize(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, 3)

	err := engine.SubmitSchedule(context.Background(), "e1", picksFor([]string{"2024-07-01"}, "Morning"))

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(store.selections) != 0 {
		t.Errorf("no rows should be written, got %d", len(store.selections))
	}
}

func TestSubmitScheduleMalformedPick(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, 2)

	tests := []struct {
		name  string
		picks []Pick
	}{
		{"日期格式错误", []Pick{{Date: "2024-07-01", ShiftType: "Morning"}, {Date: "07/02/2024", ShiftType: "Morning"}}},
		{"日期不存在", []Pick{{Date: "2024-07-01", ShiftType: "Morning"}, {Date: "2024-02-30", ShiftType: "Morning"}}},
		{"班次类型未知", []Pick{{Date: "2024-07-01", ShiftType: "Morning"}, {Date: "2024-07-02", ShiftType: "Midnight"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.SubmitSchedule(context.Background(), "e1", tt.picks)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
	if len(store.selections) != 0 {
		t.Errorf("no rows should be written, got %d", len(store.selections))
	}
}

func TestSubmitScheduleSuccess(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 2)
	store.setCapacity("2024-07-02", domain.ShiftEvening, 1)
	engine := NewEngine(store, 2)

	picks := []Pick{
		{Date: "2024-07-01", ShiftType: "Morning"},
		{Date: "2024-07-02", ShiftType: "Evening"},
	}
	if err := engine.SubmitSchedule(context.Background(), "e1", picks); err != nil {
		t.Fatalf("SubmitSchedule: %v", err)
	}

	if len(store.selections) != 2 {
		t.Fatalf("want 2 rows, got %d", len(store.selections))
	}
	for _, sel := range store.selections {
		if sel.EmployeeID != "e1" || sel.Status != domain.SelectionApproved {
			t.Errorf("unexpected row %+v", sel)
		}
	}
}

func TestSubmitScheduleDuplicateDateInBatch(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 10)
	store.setCapacity("2024-07-01", domain.ShiftEvening, 10)
	engine := NewEngine(store, 2)

	picks := []Pick{
		{Date: "2024-07-01", ShiftType: "Morning"},
		{Date: "2024-07-01", ShiftType: "Evening"},
	}
	err := engine.SubmitSchedule(context.Background(), "e1", picks)

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("want ConflictError, got %v", err)
	}
	if cErr.Date.Format(domain.DateLayout) != "2024-07-01" {
		t.Errorf("ConflictError date = %s", cErr.Date.Format(domain.DateLayout))
	}
	if len(store.selections) != 0 {
		t.Errorf("whole batch must be rejected, got %d rows", len(store.selections))
	}
}

func TestSubmitScheduleConflictWithCommitted(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 10)
	store.setCapacity("2024-07-02", domain.ShiftMorning, 10)
	store.addSelection("e1", "2024-07-02", domain.ShiftNight)
	engine := NewEngine(store, 2)

	err := engine.SubmitSchedule(context.Background(), "e1", picksFor([]string{"2024-07-01", "2024-07-02"}, "Morning"))

	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("want ConflictError, got %v", err)
	}
	if cErr.Date.Format(domain.DateLayout) != "2024-07-02" {
		t.Errorf("ConflictError date = %s", cErr.Date.Format(domain.DateLayout))
	}
	if len(store.selections) != 1 {
		t.Errorf("only the pre-existing row should remain, got %d", len(store.selections))
	}
}

func TestSubmitScheduleSlotWithoutCapacity(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 10)
	engine := NewEngine(store, 2)

	err := engine.SubmitSchedule(context.Background(), "e1", picksFor([]string{"2024-07-01", "2024-07-02"}, "Morning"))

	var nErr *NotFoundError
	if !errors.As(err, &nErr) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if nErr.Date.Format(domain.DateLayout) != "2024-07-02" || nErr.ShiftType != domain.ShiftMorning {
		t.Errorf("NotFoundError key = %s %s", nErr.Date.Format(domain.DateLayout), nErr.ShiftType)
	}
	if len(store.selections) != 0 {
		t.Errorf("no rows should be written, got %d", len(store.selections))
	}
}

func TestSubmitScheduleCapacityExceeded(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 1)
	store.setCapacity("2024-07-02", domain.ShiftMorning, 1)
	store.addSelection("e2", "2024-07-01", domain.ShiftMorning)
	engine := NewEngine(store, 2)

	err := engine.SubmitSchedule(context.Background(), "e1", picksFor([]string{"2024-07-01", "2024-07-02"}, "Morning"))

	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("want CapacityExceededError, got %v", err)
	}
	if capErr.Date.Format(domain.DateLayout) != "2024-07-01" || capErr.ShiftType != domain.ShiftMorning {
		t.Errorf("CapacityExceededError key = %s %s", capErr.Date.Format(domain.DateLayout), capErr.ShiftType)
	}
	if len(store.selections) != 1 {
		t.Errorf("batch must not be partially written, got %d rows", len(store.selections))
	}
}

// 管理员把容量下调到已占用数量以下后，存量记录保留，但新的预约必须失败
func TestSubmitScheduleAfterRetroactiveReduction(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 1)
	store.addSelection("e2", "2024-07-01", domain.ShiftMorning)
	store.addSelection("e3", "2024-07-01", domain.ShiftMorning)
	engine := NewEngine(store, 1)

	err := engine.SubmitSchedule(context.Background(), "e1", picksFor([]string{"2024-07-01"}, "Morning"))

	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("want CapacityExceededError, got %v", err)
	}
}

// 三个并发提交争夺容量为 2 的同一个槽位，必须恰好两个成功
func TestSubmitScheduleConcurrentLastSlots(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 2)
	engine := NewEngine(store, 1)

	employees := []string{"e1", "e2", "e3"}
	errs := make([]error, len(employees))

	var wg sync.WaitGroup
	for i, id := range employees {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = engine.SubmitSchedule(context.Background(), id, picksFor([]string{"2024-07-01"}, "Morning"))
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	capacityErrs := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			var capErr *CapacityExceededError
			if !errors.As(err, &capErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			if capErr.Date.Format(domain.DateLayout) != "2024-07-01" || capErr.ShiftType != domain.ShiftMorning {
				t.Errorf("CapacityExceededError key = %s %s", capErr.Date.Format(domain.DateLayout), capErr.ShiftType)
			}
			capacityErrs++
		}
	}

	if succeeded != 2 || capacityErrs != 1 {
		t.Fatalf("want 2 winners and 1 CapacityExceededError, got %d winners, %d capacity errors", succeeded, capacityErrs)
	}

	key := SlotKey{Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), ShiftType: domain.ShiftMorning}
	if taken := store.countApproved(key); taken != 2 {
		t.Errorf("taken = %d, want 2", taken)
	}
}

// 同一名员工的并发提交不能在同一天留下两条记录
func TestSubmitScheduleConcurrentSameEmployee(t *testing.T) {
	store := newFakeStore()
	store.setCapacity("2024-07-01", domain.ShiftMorning, 10)
	store.setCapacity("2024-07-01", domain.ShiftEvening, 10)
	engine := NewEngine(store, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, shiftType := range []string{"Morning", "Evening"} {
		wg.Add(1)
		go func(i int, shiftType string) {
			defer wg.Done()
			errs[i] = engine.SubmitSchedule(context.Background(), "e1", picksFor([]string{"2024-07-01"}, shiftType))
		}(i, shiftType)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var cErr *ConflictError
		if !errors.As(err, &cErr) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("exactly one submission should win, got %d", succeeded)
	}
	if len(store.selections) != 1 {
		t.Errorf("want 1 row, got %d", len(store.selections))
	}
}
