package numerator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	counters map[string]int64
	err      error
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.err != nil {
		return &mockRow{err: m.err}
	}
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	key := args[0].(string)
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

func TestServiceNext_Sequential(t *testing.T) {
	svc := NewService(&mockQuerier{})
	ctx := context.Background()
	cfg := DefaultConfig("POS")
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	num, err := svc.Next(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "POS-20260829-0001" {
		t.Errorf("expected POS-20260829-0001, got %s", num)
	}

	num, err = svc.Next(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "POS-20260829-0002" {
		t.Errorf("expected POS-20260829-0002, got %s", num)
	}
}

func TestServiceNext_DailyReset(t *testing.T) {
	svc := NewService(&mockQuerier{})
	ctx := context.Background()
	cfg := DefaultConfig("POS")

	day1 := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 0, 1, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := svc.Next(ctx, cfg, day1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Next day starts back at 0001 under a fresh key.
	num, err := svc.Next(ctx, cfg, day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "POS-20260830-0001" {
		t.Errorf("expected POS-20260830-0001, got %s", num)
	}
}

func TestServiceNext_QueryError(t *testing.T) {
	svc := NewService(&mockQuerier{err: errors.New("boom")})
	_, err := svc.Next(context.Background(), DefaultConfig("POS"), time.Now())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestConfigKey(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"daily", DefaultConfig("POS"), "POS_20260829"},
		{"monthly", Config{Prefix: "GRN", DateFormat: "200601"}, "GRN_202608"},
		{"no date segment", Config{Prefix: "SEQ"}, "SEQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Key(day); got != tt.want {
				t.Errorf("Key() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConfigFormat(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		num  int64
		want string
	}{
		{"default pad", DefaultConfig("POS"), 7, "POS-20260829-0007"},
		{"overflow pad", DefaultConfig("POS"), 12345, "POS-20260829-12345"},
		{"zero pad defaults to 4", Config{Prefix: "X", DateFormat: "20060102"}, 1, "X-20260829-0001"},
		{"no date segment", Config{Prefix: "SEQ", PadWidth: 6}, 42, "SEQ-000042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Format(day, tt.num); got != tt.want {
				t.Errorf("Format() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMemoryNext(t *testing.T) {
	gen := NewMemory()
	ctx := context.Background()
	cfg := DefaultConfig("POS")
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	first, err := gen.Next(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := gen.Next(ctx, cfg, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != "POS-20260829-0001" || second != "POS-20260829-0002" {
		t.Errorf("unexpected sequence: %s, %s", first, second)
	}

	// Independent prefixes count independently.
	other, err := gen.Next(ctx, DefaultConfig("GRN"), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other != "GRN-20260829-0001" {
		t.Errorf("expected GRN-20260829-0001, got %s", other)
	}
}
