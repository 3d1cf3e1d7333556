package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 50, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatal("LimitWithBuffer should add one row")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	orig := Cursor{
		CreatedAt: time.Date(2025, 6, 1, 12, 30, 0, 123456000, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(orig))
	if err != nil {
		t.Fatalf("ParseCursor returned error: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !parsed.CreatedAt.Equal(orig.CreatedAt) || parsed.ID != orig.ID {
		t.Fatalf("cursor not preserved: %+v", parsed)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	cursor, err := ParseCursor("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cursor != nil {
		t.Fatal("expected nil cursor for blank input")
	}
}

func TestParseCursorMalformed(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := ParseCursor("bm8tcGlwZQ"); err == nil {
		t.Fatal("expected error for missing separator")
	}
}
