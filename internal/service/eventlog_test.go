package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"power_node/internal/models"
)

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

func Test_normalizeToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want func(time.Time) bool
	}{
		{
			name: "zero time remains zero",
			in:   time.Time{},
			want: func(out time.Time) bool { return out.IsZero() },
		},
		{
			name: "non-UTC converted to UTC preserving instant",
			in:   mustTimeIn(time.FixedZone("UTC+3", 3*3600), 2026, time.August, 1, 12, 34, 56),
			want: func(out time.Time) bool {
				exp := time.Date(2026, time.August, 1, 9, 34, 56, 0, time.UTC)
				return out.Location() == time.UTC && out.Equal(exp)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeToUTC(tc.in)
			if !tc.want(got) {
				t.Fatalf("unexpected normalizeToUTC result: %v (loc=%v)", got, got.Location())
			}
		})
	}
}

func Test_normalizeEventType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		exp  string
	}{
		{name: "empty stays empty", in: "", exp: ""},
		{name: "trim spaces", in: "  VISUAL ", exp: "VISUAL"},
		{name: "uppercase", in: "access_denied", exp: "ACCESS_DENIED"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeEventType(c.in); got != c.exp {
				t.Fatalf("normalizeEventType(%q) = %q; want %q", c.in, got, c.exp)
			}
		})
	}
}

func Test_normalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	fromLocal := mustTimeIn(time.FixedZone("UTC+2", 2*3600), 2026, time.September, 10, 10, 0, 0)
	toUTC := time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		in       LogFilter
		wantFrom time.Time
		wantTo   time.Time
		wantType string
		wantNode string
		wantErr  error
	}{
		{
			name: "all zero/empty ok",
			in:   LogFilter{},
		},
		{
			name: "from after to -> error",
			in: LogFilter{
				From: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
			},
			wantErr: errInvalidTimeRange,
		},
		{
			name: "normalize tz, type and node",
			in: LogFilter{
				NodeID: " apc-1 ",
				From:   fromLocal,
				To:     toUTC,
				Type:   " breaker_toggled ",
			},
			wantFrom: time.Date(2026, time.September, 10, 8, 0, 0, 0, time.UTC),
			wantTo:   toUTC,
			wantType: "BREAKER_TOGGLED",
			wantNode: "apc-1",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q, err := normalizeAndValidateFilter(tc.in)

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v; got %v", tc.wantErr, err)
			}
			if !q.From.Equal(tc.wantFrom) {
				t.Fatalf("from: got %v; want %v", q.From, tc.wantFrom)
			}
			if !q.To.Equal(tc.wantTo) {
				t.Fatalf("to: got %v; want %v", q.To, tc.wantTo)
			}
			if q.Type != tc.wantType || q.NodeID != tc.wantNode {
				t.Fatalf("type/node: got %q/%q; want %q/%q", q.Type, q.NodeID, tc.wantType, tc.wantNode)
			}
		})
	}
}

func TestEventLogService_List_DelegatesNormalizedQuery(t *testing.T) {
	t.Parallel()

	repo := &memEventRepo{events: []models.NodeEvent{{EventID: "1", NodeID: "apc-1"}}}
	svc := NewEventLogService(repo)

	out, err := svc.List(context.Background(), LogFilter{
		NodeID: "apc-1",
		From:   mustTimeIn(time.FixedZone("UTC+5", 5*3600), 2026, time.October, 1, 10, 0, 0),
		Type:   "  visual ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "1" {
		t.Fatalf("unexpected events: %+v", out)
	}
	if len(repo.queries) != 1 {
		t.Fatalf("repo List should be called once, got %d", len(repo.queries))
	}
	q := repo.queries[0]
	if !q.From.Equal(time.Date(2026, time.October, 1, 5, 0, 0, 0, time.UTC)) || q.Type != "VISUAL" || q.NodeID != "apc-1" {
		t.Fatalf("unexpected query: %+v", q)
	}
}

func TestEventLogService_List_ValidationError(t *testing.T) {
	t.Parallel()

	repo := &memEventRepo{}
	svc := NewEventLogService(repo)

	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Fatalf("expected errInvalidTimeRange; got %v", err)
	}
	if len(repo.queries) != 0 {
		t.Fatalf("repo should not be called on validation error")
	}
}

func TestEventLogService_List_RepoErrorPropagation(t *testing.T) {
	t.Parallel()

	repo := &memEventRepo{listErr: errors.New("db down")}
	svc := NewEventLogService(repo)

	if _, err := svc.List(context.Background(), LogFilter{}); !errors.Is(err, repo.listErr) {
		t.Fatalf("expected repo error to propagate; got %v", err)
	}
}
