package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

func (r *Repository) GetEmployeeByEmployeeID(employeeID string) (*domain.Employee, error) {
	query := `
		SELECT id, password_hash, name, role, is_priority, email, created_at, version
		FROM employees WHERE employee_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		EmployeeID: employeeID,
	}

	dst := []any{&employee.ID, &employee.PasswordHash, &employee.Name, &employee.Role, &employee.IsPriority, &employee.Email, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID).Scan(dst...); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	query := `
		SELECT id, employee_id, password_hash, name, role, is_priority, email, created_at, version
		FROM employees
		ORDER BY employee_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.EmployeeID, &employee.PasswordHash, &employee.Name, &employee.Role, &employee.IsPriority, &employee.Email, &employee.CreatedAt, &employee.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (employee_id, password_hash, name, role, is_priority, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{employee.EmployeeID, employee.PasswordHash, employee.Name, employee.Role, employee.IsPriority, employee.Email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.ID, &employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

// UpdateEmployeePriority 只允许修改优先标记，这是员工记录在本系统里唯一可变的字段
func (r *Repository) UpdateEmployeePriority(employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			is_priority = $1,
			version = version + 1
		WHERE employee_id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.IsPriority, employee.EmployeeID, employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.Version); err != nil {
		return err
	}

	return nil
}

// SyncDirectory 导入一份员工名单快照，只插入数据库中还不存在的员工，
// 返回本次新增的员工编号。没有任何隐式的全局名单
func (r *Repository) SyncDirectory(employees []*domain.Employee) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO employees (employee_id, password_hash, name, role, is_priority, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id) DO NOTHING
		RETURNING employee_id
	`

	added := make([]string, 0)
	for _, employee := range employees {
		args := []any{employee.EmployeeID, employee.PasswordHash, employee.Name, employee.Role, employee.IsPriority, employee.Email}

		var insertedID string
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&insertedID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// 冲突时没有返回行，说明这名员工已经存在，跳过
				continue
			}
			return nil, err
		}
		added = append(added, insertedID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return added, nil
}
