package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const adminsTable = "admins"

var adminColumns = []string{"id", "email", "password_hash", "created_at"}

func (s *sqlStore) findAdmin(ctx context.Context, p *entsql.Predicate) (*Admin, error) {
	b := s.builder()
	query, args := b.Select(adminColumns...).
		From(b.Table(adminsTable)).
		Where(p).
		Limit(1).
		Query()

	var (
		a       Admin
		created int64
	)
	err := s.conn.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Email, &a.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	a.CreatedAt = fromUnixMilli(created)
	return &a, nil
}

// FindAdminByEmail matches case-insensitively; emails are stored lower-cased.
func (s *sqlStore) FindAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	return s.findAdmin(ctx, entsql.EQ("email", strings.ToLower(strings.TrimSpace(email))))
}

func (s *sqlStore) FindAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return s.findAdmin(ctx, entsql.EQ("id", id.String()))
}

func (s *sqlStore) InsertAdmin(ctx context.Context, a *Admin) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	query, args := s.builder().Insert(adminsTable).
		Columns(adminColumns...).
		Values(a.ID.String(), a.Email, a.PasswordHash, a.CreatedAt.UnixMilli()).
		Query()

	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}
