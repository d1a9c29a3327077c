package sweep_test

import (
	"context"
	"testing"
	"time"

	"github.com/bonselink/inspections/internal/domain"
	"github.com/bonselink/inspections/internal/sweep"
)

// ---------- Mocks ----------

type record struct {
	date      time.Time
	timeOfDay domain.TimeOfDay
}

// mockSlotStore mirrors the store's delete semantics: exact date match, the
// protected time of day survives.
type mockSlotStore struct {
	records []record
}

func (m *mockSlotStore) ExpireDay(_ context.Context, date time.Time, protected domain.TimeOfDay) (int64, error) {
	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.date.Equal(date) && r.timeOfDay != protected {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

type mockPublisher struct {
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func TestRunOnceDeletesOnlyYesterdayUnprotected(t *testing.T) {
	store := &mockSlotStore{records: []record{
		{date: day(2026, 8, 28), timeOfDay: domain.TimeMorning},   // yesterday, swept
		{date: day(2026, 8, 28), timeOfDay: domain.TimeAfternoon}, // yesterday, protected
		{date: day(2026, 8, 27), timeOfDay: domain.TimeMorning},   // two days ago, out of range
	}}
	bus := &mockPublisher{}

	s := sweep.New(store, bus, 6)
	s.Now = func() time.Time { return time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC) }

	s.RunOnce(context.Background())

	if len(store.records) != 2 {
		t.Fatalf("got %d records left, want 2: %+v", len(store.records), store.records)
	}
	for _, r := range store.records {
		if r.date.Equal(day(2026, 8, 28)) && r.timeOfDay == domain.TimeMorning {
			t.Error("yesterday-morning record survived the sweep")
		}
	}

	if len(bus.subjects) != 1 || bus.subjects[0] != "slots.expired" {
		t.Errorf("published subjects = %v", bus.subjects)
	}
}

func TestRunOnceIsIdempotent(t *testing.T) {
	store := &mockSlotStore{records: []record{
		{date: day(2026, 8, 28), timeOfDay: domain.TimeMorning},
	}}
	bus := &mockPublisher{}

	s := sweep.New(store, bus, 6)
	s.Now = func() time.Time { return time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC) }

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	if len(store.records) != 0 {
		t.Errorf("records left = %+v", store.records)
	}
	// The second run deleted nothing, so only one event went out.
	if len(bus.subjects) != 1 {
		t.Errorf("published subjects = %v", bus.subjects)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &mockSlotStore{}
	s := sweep.New(store, nil, 6)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
