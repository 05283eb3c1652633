package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
	"github.com/Pro-fish0/my-shift/backend/internal/scheduling"
)

// txStore 实现 scheduling.TxStore，所有方法都跑在同一个事务里
type txStore struct {
	tx *sql.Tx
}

// LockSlot 用 FOR UPDATE 锁住槽位的容量记录，再统计已批准的预约数量。
// 并发提交触碰同一个槽位时会在这里排队，容量上限的检查因此不存在先检后写的竞态
func (s *txStore) LockSlot(ctx context.Context, key scheduling.SlotKey) (scheduling.SlotState, error) {
	query := `
		SELECT capacity FROM shift_capacities
		WHERE date = $1 AND shift_type = $2
		FOR UPDATE
	`

	state := scheduling.SlotState{}
	if err := s.tx.QueryRowContext(ctx, query, key.Date, key.ShiftType).Scan(&state.Capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scheduling.SlotState{}, nil
		}
		return scheduling.SlotState{}, err
	}
	state.Found = true

	query = `
		SELECT COUNT(*) FROM shift_selections
		WHERE date = $1 AND shift_type = $2 AND status = $3
	`
	if err := s.tx.QueryRowContext(ctx, query, key.Date, key.ShiftType, domain.SelectionApproved).Scan(&state.Taken); err != nil {
		return scheduling.SlotState{}, err
	}

	return state, nil
}

func (s *txStore) HasSelection(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM shift_selections WHERE employee_id = $1 AND date = $2)
	`

	exists := false
	if err := s.tx.QueryRowContext(ctx, query, employeeID, date).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (s *txStore) InsertSelection(ctx context.Context, sel *domain.ShiftSelection) error {
	query := `
		INSERT INTO shift_selections (employee_id, date, shift_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	args := []any{sel.EmployeeID, sel.Date, sel.ShiftType, sel.Status}
	if err := s.tx.QueryRowContext(ctx, query, args...).Scan(&sel.ID, &sel.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployeeSelections(employeeID string, month domain.Month) ([]*domain.ShiftSelection, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	start, end := month.Window()
	query := `
		SELECT id, date, shift_type, status, created_at
		FROM shift_selections
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	selections := make([]*domain.ShiftSelection, 0)
	for rows.Next() {
		sel := &domain.ShiftSelection{EmployeeID: employeeID}
		if err := rows.Scan(&sel.ID, &sel.Date, &sel.ShiftType, &sel.Status, &sel.CreatedAt); err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selections, nil
}

func (r *Repository) GetMonthSelections(month domain.Month) ([]*domain.ShiftSelection, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	start, end := month.Window()
	query := `
		SELECT id, employee_id, date, shift_type, status, created_at
		FROM shift_selections
		WHERE date >= $1 AND date < $2
		ORDER BY employee_id, date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	selections := make([]*domain.ShiftSelection, 0)
	for rows.Next() {
		sel := &domain.ShiftSelection{}
		if err := rows.Scan(&sel.ID, &sel.EmployeeID, &sel.Date, &sel.ShiftType, &sel.Status, &sel.CreatedAt); err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selections, nil
}

// ResetSchedule 删除员工在 [月初, 下月初) 内的所有班次记录
func (r *Repository) ResetSchedule(employeeID string, month domain.Month) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	start, end := month.Window()
	query := `
		DELETE FROM shift_selections
		WHERE employee_id = $1 AND date >= $2 AND date < $3
	`

	_, err := r.dbpool.ExecContext(ctx, query, employeeID, start, end)
	if err != nil {
		return err
	}

	return nil
}
