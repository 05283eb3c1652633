package scheduling

import (
	"testing"
	"time"

	"github.com/Pro-fish0/my-shift/backend/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 7, d, 0, 0, 0, 0, time.UTC)
}

func selection(employeeID string, d int, shiftType domain.ShiftType) *domain.ShiftSelection {
	return &domain.ShiftSelection{
		EmployeeID: employeeID,
		Date:       day(d),
		ShiftType:  shiftType,
		Status:     domain.SelectionApproved,
	}
}

func vacation(employeeID string, d int) *domain.VacationRequest {
	return &domain.VacationRequest{
		EmployeeID: employeeID,
		Date:       day(d),
		Status:     domain.VacationApproved,
	}
}

func TestMergeScheduleVacationWins(t *testing.T) {
	selections := []*domain.ShiftSelection{
		selection("e1", 3, domain.ShiftMorning),
		selection("e1", 5, domain.ShiftNight),
	}
	vacations := []*domain.VacationRequest{vacation("e1", 3)}

	entries := MergeSchedule(selections, vacations)

	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0].Kind != domain.EntryVacation || entries[0].Date.Day() != 3 {
		t.Errorf("entry 0 = %+v, want vacation on day 3", entries[0])
	}
	if entries[1].Kind != domain.EntryShift || entries[1].ShiftType != domain.ShiftNight {
		t.Errorf("entry 1 = %+v, want Night shift on day 5", entries[1])
	}
}

func TestMergeScheduleSortedAscending(t *testing.T) {
	selections := []*domain.ShiftSelection{
		selection("e1", 20, domain.ShiftEvening),
		selection("e1", 2, domain.ShiftMorning),
		selection("e1", 11, domain.ShiftNight),
	}

	entries := MergeSchedule(selections, nil)

	for i := 1; i < len(entries); i++ {
		if entries[i].Date.Before(entries[i-1].Date) {
			t.Fatalf("entries not sorted: %v before %v", entries[i].Date, entries[i-1].Date)
		}
	}
}

func TestBuildMonthGridCodes(t *testing.T) {
	selections := []*domain.ShiftSelection{
		selection("e1", 1, domain.ShiftMorning),
		selection("e1", 2, domain.ShiftEvening),
		selection("e1", 3, domain.ShiftNight),
	}

	rows := BuildMonthGrid(selections, nil)

	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Codes[0] != "M" || row.Codes[1] != "E" || row.Codes[2] != "N" {
		t.Errorf("codes = %v", row.Codes[:3])
	}
	// 没有记录的列保持默认代号，31 列始终写满
	for i := 3; i < 31; i++ {
		if row.Codes[i] != domain.GridCodeEmpty {
			t.Errorf("column %d = %q, want %q", i+1, row.Codes[i], domain.GridCodeEmpty)
		}
	}
}

func TestBuildMonthGridVacationOverridesShift(t *testing.T) {
	selections := []*domain.ShiftSelection{selection("e1", 3, domain.ShiftMorning)}
	vacations := []*domain.VacationRequest{vacation("e1", 3)}

	rows := BuildMonthGrid(selections, vacations)

	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	if rows[0].Codes[2] != domain.GridCodeVacation {
		t.Errorf("column 3 = %q, want %q", rows[0].Codes[2], domain.GridCodeVacation)
	}
}

func TestBuildMonthGridRowOrderDeterministic(t *testing.T) {
	selections := []*domain.ShiftSelection{
		selection("w997", 1, domain.ShiftMorning),
		selection("m997", 1, domain.ShiftMorning),
		selection("t997", 1, domain.ShiftMorning),
	}

	rows := BuildMonthGrid(selections, nil)

	want := []string{"m997", "t997", "w997"}
	if len(rows) != len(want) {
		t.Fatalf("want %d rows, got %d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].EmployeeID != id {
			t.Errorf("row %d = %s, want %s", i, rows[i].EmployeeID, id)
		}
	}
}

func TestBuildMonthGridExcludesEmployeesWithoutRecords(t *testing.T) {
	rows := BuildMonthGrid(nil, nil)
	if len(rows) != 0 {
		t.Errorf("want empty grid, got %d rows", len(rows))
	}
}
