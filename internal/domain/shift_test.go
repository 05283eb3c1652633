package domain

import (
	"testing"
	"time"
)

func TestParseShiftType(t *testing.T) {
	for _, valid := range []string{"Morning", "Evening", "Night"} {
		st, err := ParseShiftType(valid)
		if err != nil {
			t.Errorf("ParseShiftType(%q): %v", valid, err)
		}
		if string(st) != valid {
			t.Errorf("ParseShiftType(%q) = %q", valid, st)
		}
	}

	for _, invalid := range []string{"", "morning", "Midnight", "M"} {
		if _, err := ParseShiftType(invalid); err == nil {
			t.Errorf("ParseShiftType(%q) should fail", invalid)
		}
	}
}

func TestShiftTypeCode(t *testing.T) {
	codes := map[ShiftType]string{
		ShiftMorning: "M",
		ShiftEvening: "E",
		ShiftNight:   "N",
	}
	for st, want := range codes {
		if got := st.Code(); got != want {
			t.Errorf("%s.Code() = %s, want %s", st, got, want)
		}
	}
}

func TestSlotKeyOf(t *testing.T) {
	d := time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)
	if got := SlotKeyOf(d, ShiftEvening); got != "14_Evening" {
		t.Errorf("SlotKeyOf = %s", got)
	}
}
