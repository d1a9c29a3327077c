package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bonselink/inspections/internal/domain"
	"github.com/bonselink/inspections/internal/schedule"
)

// SlotsRepo persists inspector offers. Rows are append-only: a bucket may hold
// any number of slots and slots are never mutated, only bulk-deleted by the
// daily sweep.
type SlotsRepo interface {
	Register(ctx context.Context, slot *domain.InspectionSlot) (*domain.InspectionSlot, error)
	FindAvailable(ctx context.Context, warehouse string, timeOfDay domain.TimeOfDay, today, tomorrow time.Time) ([]domain.InspectionSlot, error)
	FindByOwner(ctx context.Context, email string) ([]domain.InspectionSlot, error)
	ListBuckets(ctx context.Context) ([]schedule.Key, error)
	ExpireDay(ctx context.Context, date time.Time, protected domain.TimeOfDay) (int64, error)
}

type SlotsRepoImpl struct{ pool *pgxpool.Pool }

func NewSlotsRepo(pool *pgxpool.Pool) *SlotsRepoImpl { return &SlotsRepoImpl{pool: pool} }

const slotCols = `id, inspection_date, warehouse, time_of_day,
fee, account_number, bank_name, nickname, email, created_at`

func (r *SlotsRepoImpl) Register(ctx context.Context, slot *domain.InspectionSlot) (*domain.InspectionSlot, error) {
	const q = `INSERT INTO inspection_slots (
    inspection_date, warehouse, time_of_day,
    fee, account_number, bank_name, nickname, email
  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  RETURNING ` + slotCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.InspectionSlot
	err := r.pool.QueryRow(ctx, q,
		slot.Date, slot.Warehouse, slot.TimeOfDay,
		slot.Fee, slot.AccountNumber, slot.BankName, slot.Nickname, slot.Email,
	).Scan(
		&s.ID, &s.Date, &s.Warehouse, &s.TimeOfDay,
		&s.Fee, &s.AccountNumber, &s.BankName, &s.Nickname, &s.Email, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SlotsRepoImpl) FindAvailable(ctx context.Context, warehouse string, timeOfDay domain.TimeOfDay, today, tomorrow time.Time) ([]domain.InspectionSlot, error) {
	const q = `SELECT ` + slotCols + `
FROM inspection_slots
WHERE inspection_date IN ($1,$2) AND warehouse=$3 AND time_of_day=$4`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, today, tomorrow, warehouse, timeOfDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *SlotsRepoImpl) FindByOwner(ctx context.Context, email string) ([]domain.InspectionSlot, error) {
	const q = `SELECT ` + slotCols + `
FROM inspection_slots
WHERE email=$1
ORDER BY inspection_date, warehouse, time_of_day`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *SlotsRepoImpl) ListBuckets(ctx context.Context) ([]schedule.Key, error) {
	const q = `SELECT DISTINCT inspection_date, warehouse, time_of_day
FROM inspection_slots
ORDER BY inspection_date, warehouse, time_of_day`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []schedule.Key
	for rows.Next() {
		var k schedule.Key
		if err := rows.Scan(&k.Date, &k.Warehouse, &k.TimeOfDay); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// ExpireDay deletes every bucket dated exactly `date` whose time of day is not
// the protected one. Retention policy, not a range delete: older strays are
// left alone. Idempotent.
func (r *SlotsRepoImpl) ExpireDay(ctx context.Context, date time.Time, protected domain.TimeOfDay) (int64, error) {
	const q = `DELETE FROM inspection_slots WHERE inspection_date=$1 AND time_of_day<>$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, date, protected)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanSlots(rows pgx.Rows) ([]domain.InspectionSlot, error) {
	slots := make([]domain.InspectionSlot, 0)
	for rows.Next() {
		var s domain.InspectionSlot
		if err := rows.Scan(
			&s.ID, &s.Date, &s.Warehouse, &s.TimeOfDay,
			&s.Fee, &s.AccountNumber, &s.BankName, &s.Nickname, &s.Email, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
