package postgres

import (
	// Go Internal Packages
	"context"
	"fmt"

	// Local Packages
	errors "pay-broker/errors"
	models "pay-broker/models"
	utils "pay-broker/utils"

	// External Packages
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Queryable is the subset of *pgxpool.Pool the ledger needs.
type Queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type LedgerRepository struct {
	db Queryable
}

func NewLedgerRepository(db Queryable) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	const sql = `INSERT INTO transactions (authority, name, amount, referrer, date) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, sql, tx.Authority, utils.JoinNames(tx.ClientNames), int64(tx.Amount), tx.Referrer, tx.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateAuthority, tx.Authority)
	}
	if err != nil {
		return fmt.Errorf("sql error: %w", err)
	}
	return nil
}

func (r *LedgerRepository) FindTransaction(ctx context.Context, authority string) (models.Transaction, error) {
	const sql = `SELECT name, amount, referrer, date FROM transactions WHERE authority = $1 LIMIT 1`

	var (
		name   string
		amount int64
		tx     = models.Transaction{Authority: authority}
	)
	err := r.db.QueryRow(ctx, sql, authority).Scan(&name, &amount, &tx.Referrer, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, errors.ErrAuthorityNotFound
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("sql error: %w", err)
	}

	tx.ClientNames = utils.SplitNames(name)
	tx.Amount = uint64(amount)
	return tx, nil
}
