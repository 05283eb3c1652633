package repository

import (
	"context"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

// SetCapacity 幂等地设置槽位容量，已存在的键原地更新。
// 把容量下调到已占用数量以下不报错，存量预约保留，
// 在计数降回容量以内之前新的预约会一直失败
func (r *Repository) SetCapacity(date time.Time, shiftType domain.ShiftType, capacity int32) (*domain.ShiftCapacity, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// 单条 upsert 语句，和预约事务里的 FOR UPDATE 行锁天然互斥
	query := `
		INSERT INTO shift_capacities (date, shift_type, capacity)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, shift_type) DO UPDATE SET capacity = EXCLUDED.capacity
		RETURNING id
	`

	sc := &domain.ShiftCapacity{
		Date:      date,
		ShiftType: shiftType,
		Capacity:  capacity,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, date, shiftType, capacity).Scan(&sc.ID); err != nil {
		return nil, err
	}

	return sc, nil
}

func (r *Repository) GetAvailability(date time.Time, shiftType domain.ShiftType) (*domain.SlotAvailability, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			c.capacity,
			(SELECT COUNT(*) FROM shift_selections s
			 WHERE s.date = c.date AND s.shift_type = c.shift_type AND s.status = $3)
		FROM shift_capacities c
		WHERE c.date = $1 AND c.shift_type = $2
	`

	availability := &domain.SlotAvailability{}
	if err := r.dbpool.QueryRowContext(ctx, query, date, shiftType, domain.SelectionApproved).Scan(&availability.Total, &availability.Taken); err != nil {
		return nil, err
	}
	availability.Available = availability.Total - availability.Taken

	return availability, nil
}

// GetAvailabilityForMonth 返回当月所有已设置容量的槽位的占用情况。
// 单条语句完成，结果是一个一致的快照
func (r *Repository) GetAvailabilityForMonth(month domain.Month) (domain.MonthAvailability, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	start, end := month.Window()
	query := `
		SELECT c.date, c.shift_type, c.capacity, COUNT(s.id)
		FROM shift_capacities c
		LEFT JOIN shift_selections s
			ON s.date = c.date AND s.shift_type = c.shift_type AND s.status = $3
		WHERE c.date >= $1 AND c.date < $2
		GROUP BY c.date, c.shift_type, c.capacity
	`

	rows, err := r.dbpool.QueryContext(ctx, query, start, end, domain.SelectionApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(domain.MonthAvailability)
	for rows.Next() {
		var (
			date      time.Time
			shiftType domain.ShiftType
			capacity  int32
			taken     int32
		)
		if err := rows.Scan(&date, &shiftType, &capacity, &taken); err != nil {
			return nil, err
		}
		result[domain.SlotKeyOf(date, shiftType)] = domain.SlotAvailability{
			Total:     capacity,
			Taken:     taken,
			Available: capacity - taken,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
