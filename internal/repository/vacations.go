package repository

import (
	"context"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

// RequestVacation 为每个日期幂等地写入一条已批准的休假记录。
// 休假没有容量台账，不需要加锁
func (r *Repository) RequestVacation(employeeID string, dates []time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO vacation_requests (employee_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	for _, date := range dates {
		if _, err := tx.ExecContext(ctx, query, employeeID, date, domain.VacationApproved); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetEmployeeVacations(employeeID string, month domain.Month) ([]*domain.VacationRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	start, end := month.Window()
	query := `
		SELECT id, date, status, created_at
		FROM vacation_requests
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vacations := make([]*domain.VacationRequest, 0)
	for rows.Next() {
		v := &domain.VacationRequest{EmployeeID: employeeID}
		if err := rows.Scan(&v.ID, &v.Date, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		vacations = append(vacations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vacations, nil
}

func (r *Repository) GetMonthVacations(month domain.Month) ([]*domain.VacationRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	start, end := month.Window()
	query := `
		SELECT id, employee_id, date, status, created_at
		FROM vacation_requests
		WHERE date >= $1 AND date < $2
		ORDER BY employee_id, date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vacations := make([]*domain.VacationRequest, 0)
	for rows.Next() {
		v := &domain.VacationRequest{}
		if err := rows.Scan(&v.ID, &v.EmployeeID, &v.Date, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		vacations = append(vacations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vacations, nil
}

// ResetVacation 删除员工在 [月初, 下月初) 内的所有休假记录
func (r *Repository) ResetVacation(employeeID string, month domain.Month) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	start, end := month.Window()
	query := `
		DELETE FROM vacation_requests
		WHERE employee_id = $1 AND date >= $2 AND date < $3
	`

	_, err := r.dbpool.ExecContext(ctx, query, employeeID, start, end)
	if err != nil {
		return err
	}

	return nil
}
