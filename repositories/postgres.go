package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type PostgresStore struct {
	db *sql.DB
	q  querier
	tx bool
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) Users() UserRepository             { return &userRepository{q: s.q} }
func (s *PostgresStore) Invitations() InvitationRepository { return &invitationRepository{q: s.q} }
func (s *PostgresStore) Guests() GuestRepository           { return &guestRepository{q: s.q} }
func (s *PostgresStore) Templates() TemplateRepository     { return &templateRepository{q: s.q} }

func (s *PostgresStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.tx {
		return fn(s)
	}
	return utils.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&PostgresStore{db: s.db, q: tx, tx: true})
	})
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return errors.Join(ErrUniqueViolation, err)
	}
	return err
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
