package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, 500: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 4, 1, 12, 30, 0, 123, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	c, err := ParseCursor("  ")
	if err != nil || c != nil {
		t.Fatalf("expected nil cursor for blank input, got %+v %v", c, err)
	}
	for _, raw := range []string{"%%%", "bm8tcGlwZQ", "eHw0"} {
		if _, err := ParseCursor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestTrim(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]Cursor, 0, 4)
	for i := 0; i < 4; i++ {
		rows = append(rows, Cursor{CreatedAt: base.Add(-time.Duration(i) * time.Hour), ID: uuid.New()})
	}
	key := func(c Cursor) Cursor { return c }

	page, next := Trim(rows, 3, key)
	if len(page) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(page))
	}
	if next != EncodeCursor(rows[2]) {
		t.Fatalf("next cursor should point at the last served row")
	}

	page, next = Trim(rows[:2], 3, key)
	if len(page) != 2 || next != "" {
		t.Fatalf("expected final page without cursor, got %d rows next=%q", len(page), next)
	}
}
