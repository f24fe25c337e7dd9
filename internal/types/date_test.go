package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-15" {
		t.Errorf("expected 2024-03-15, got %s", d.String())
	}

	if _, err := ParseDate("15/03/2024"); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestDateJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		out, err := json.Marshal(NewDate(2024, time.January, 31))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != `"2024-01-31"` {
			t.Errorf("expected \"2024-01-31\", got %s", out)
		}
	})

	t.Run("unmarshal full date", func(t *testing.T) {
		var d Date
		if err := json.Unmarshal([]byte(`"2024-01-31"`), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Equal(NewDate(2024, time.January, 31)) {
			t.Errorf("expected 2024-01-31, got %s", d)
		}
	})

	t.Run("unmarshal timestamp drops time", func(t *testing.T) {
		var d Date
		if err := json.Unmarshal([]byte(`"2024-01-31T14:05:00Z"`), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !d.Equal(NewDate(2024, time.January, 31)) {
			t.Errorf("expected 2024-01-31, got %s", d)
		}
	})

	t.Run("unmarshal garbage", func(t *testing.T) {
		var d Date
		if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2024, time.June, 1)
	b := NewDate(2024, time.June, 30)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before comparison is wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After comparison is wrong")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date must not be before or after itself")
	}
	if !a.AddDays(29).Equal(b) {
		t.Errorf("expected %s, got %s", b, a.AddDays(29))
	}
}

func TestDateOfNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	d := DateOf(time.Date(2024, time.June, 1, 2, 30, 0, 0, loc))
	// 02:30 UTC+8 is still May 31 in UTC.
	if !d.Equal(NewDate(2024, time.May, 31)) {
		t.Errorf("expected 2024-05-31, got %s", d)
	}
}
