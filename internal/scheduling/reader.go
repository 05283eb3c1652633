package scheduling

import (
	"sort"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

// MergeSchedule 把一名员工当月的班次和休假合并成课表视图。
// 同一天既有班次又有休假时只保留休假项，班次记录本身不动
func MergeSchedule(selections []*domain.ShiftSelection, vacations []*domain.VacationRequest) []domain.ScheduleEntry {
	entries := make([]domain.ScheduleEntry, 0, len(selections)+len(vacations))

	vacationDays := make(map[string]struct{}, len(vacations))
	for _, v := range vacations {
		vacationDays[v.Date.Format(domain.DateLayout)] = struct{}{}
		entries = append(entries, domain.ScheduleEntry{
			Date:   v.Date,
			Kind:   domain.EntryVacation,
			Status: string(v.Status),
		})
	}

	for _, s := range selections {
		if _, onVacation := vacationDays[s.Date.Format(domain.DateLayout)]; onVacation {
			continue
		}
		entries = append(entries, domain.ScheduleEntry{
			Date:      s.Date,
			Kind:      domain.EntryShift,
			ShiftType: s.ShiftType,
			Status:    string(s.Status),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	return entries
}

// BuildMonthGrid 生成月度班表导出用的网格。
// 每行固定 31 列，没有记录的列保持默认的 O，当月不存在的日子也是如此；
// 休假覆盖同一天的班次；当月没有任何记录的员工不出现在网格中。
// 行按员工编号升序排列，保证导出结果可复现
func BuildMonthGrid(selections []*domain.ShiftSelection, vacations []*domain.VacationRequest) []domain.GridRow {
	rowsMap := make(map[string]*domain.GridRow)

	rowFor := func(employeeID string) *domain.GridRow {
		row, ok := rowsMap[employeeID]
		if !ok {
			row = &domain.GridRow{EmployeeID: employeeID}
			for i := range row.Codes {
				row.Codes[i] = domain.GridCodeEmpty
			}
			rowsMap[employeeID] = row
		}
		return row
	}

	for _, s := range selections {
		rowFor(s.EmployeeID).Codes[s.Date.Day()-1] = s.ShiftType.Code()
	}

	// 休假后写入，天然覆盖同一天的班次代号
	for _, v := range vacations {
		rowFor(v.EmployeeID).Codes[v.Date.Day()-1] = domain.GridCodeVacation
	}

	ids := make([]string, 0, len(rowsMap))
	for id := range rowsMap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]domain.GridRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, *rowsMap[id])
	}

	return rows
}
