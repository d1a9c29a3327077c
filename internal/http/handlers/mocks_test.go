package handlers_test

import (
	"context"
	"time"

	"github.com/bonselink/inspections/internal/domain"
	"github.com/bonselink/inspections/internal/schedule"
)

// ---------- Mocks ----------

type mockUsersRepo struct {
	nextID int64
	users  map[string]*domain.User
}

func newMockUsersRepo() *mockUsersRepo {
	return &mockUsersRepo{users: make(map[string]*domain.User)}
}

func (m *mockUsersRepo) Create(_ context.Context, email, hash, nickname string) (*domain.User, error) {
	if _, exists := m.users[email]; exists {
		return nil, domain.ErrEmailTaken
	}
	m.nextID++
	u := &domain.User{
		ID:           m.nextID,
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
		CreatedAt:    time.Now(),
	}
	m.users[email] = u
	cp := *u
	return &cp, nil
}

func (m *mockUsersRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, exists := m.users[email]
	if !exists {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type mockSlotsRepo struct {
	nextID int64
	slots  []domain.InspectionSlot
}

func sameDate(a, b time.Time) bool {
	return a.Format(domain.DateLayout) == b.Format(domain.DateLayout)
}

func (m *mockSlotsRepo) Register(_ context.Context, slot *domain.InspectionSlot) (*domain.InspectionSlot, error) {
	m.nextID++
	s := *slot
	s.ID = m.nextID
	s.CreatedAt = time.Now()
	m.slots = append(m.slots, s)
	cp := s
	return &cp, nil
}

func (m *mockSlotsRepo) FindAvailable(_ context.Context, warehouse string, timeOfDay domain.TimeOfDay, today, tomorrow time.Time) ([]domain.InspectionSlot, error) {
	out := make([]domain.InspectionSlot, 0)
	for _, s := range m.slots {
		if s.Warehouse != warehouse || s.TimeOfDay != timeOfDay {
			continue
		}
		if sameDate(s.Date, today) || sameDate(s.Date, tomorrow) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSlotsRepo) FindByOwner(_ context.Context, email string) ([]domain.InspectionSlot, error) {
	out := make([]domain.InspectionSlot, 0)
	for _, s := range m.slots {
		if s.Email == email {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSlotsRepo) ListBuckets(_ context.Context) ([]schedule.Key, error) {
	seen := make(map[string]bool)
	var keys []schedule.Key
	for _, s := range m.slots {
		k := schedule.Key{Date: s.Date, Warehouse: s.Warehouse, TimeOfDay: s.TimeOfDay}
		enc := k.Encode()
		if !seen[enc] {
			seen[enc] = true
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *mockSlotsRepo) ExpireDay(_ context.Context, date time.Time, protected domain.TimeOfDay) (int64, error) {
	kept := m.slots[:0]
	var deleted int64
	for _, s := range m.slots {
		if sameDate(s.Date, date) && s.TimeOfDay != protected {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	m.slots = kept
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
