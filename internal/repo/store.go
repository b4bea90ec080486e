package repo

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/medbook_backend/pkg/database"
)

// Store is the durable home of appointments and admin accounts.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// FindActiveAt returns the non-cancelled appointment at the exact instant, or ErrNotFound.
	FindActiveAt(ctx context.Context, at time.Time) (*Appointment, error)
	// ListBetween returns every appointment with from <= ScheduledAt < to, any status.
	ListBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
	List(ctx context.Context, f ListFilter) ([]Appointment, error)
	// Insert persists a new appointment, failing with ErrSlotTaken if its slot is held.
	Insert(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindAdminByEmail(ctx context.Context, email string) (*Admin, error)
	FindAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	InsertAdmin(ctx context.Context, a *Admin) error

	Ping(ctx context.Context) error
	Close() error
}

type sqlStore struct {
	db   *database.DB
	conn *sql.DB
}

func New(db *database.DB) Store {
	return &sqlStore{db: db, conn: db.GetConnection()}
}

func (s *sqlStore) builder() *entsql.DialectBuilder {
	return s.db.Builder()
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func fromUnixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func fromUnix(sec int64) time.Time { return time.Unix(sec, 0).UTC() }
