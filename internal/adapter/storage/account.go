package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dogenkigen/account-manager/internal/core/domain"
)

// SnapshotRepository exports final account state to Postgres.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

const createAccountsTable = `
	CREATE TABLE IF NOT EXISTS accounts (
		client    INTEGER PRIMARY KEY,
		available NUMERIC NOT NULL,
		held      NUMERIC NOT NULL,
		total     NUMERIC NOT NULL,
		locked    BOOLEAN NOT NULL
	)`

const upsertAccount = `
	INSERT INTO accounts (client, available, held, total, locked)
	VALUES ($1, $2::text::numeric, $3::text::numeric, $4::text::numeric, $5)
	ON CONFLICT (client) DO UPDATE
	SET available = EXCLUDED.available,
	    held      = EXCLUDED.held,
	    total     = EXCLUDED.total,
	    locked    = EXCLUDED.locked`

// EnsureSchema creates the accounts table if it does not exist.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createAccountsTable); err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}
	return nil
}

// SaveAccounts upserts every account in one transaction.
func (r *SnapshotRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, acc := range accounts {
		batch.Queue(upsertAccount,
			int32(acc.Client), acc.Available.String(), acc.Held.String(), acc.Total.String(), acc.Locked)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}

	return tx.Commit(ctx)
}

// GetAccount reads one exported account back.
func (r *SnapshotRepository) GetAccount(ctx context.Context, client uint16) (*domain.Account, error) {
	query := `SELECT available::text, held::text, total::text, locked FROM accounts WHERE client = $1`

	var available, held, total string
	acc := domain.Account{Client: client}
	err := r.db.QueryRow(ctx, query, int32(client)).Scan(&available, &held, &total, &acc.Locked)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("account not found")
	}
	if err != nil {
		return nil, err
	}

	if acc.Available, err = decimal.NewFromString(available); err != nil {
		return nil, err
	}
	if acc.Held, err = decimal.NewFromString(held); err != nil {
		return nil, err
	}
	if acc.Total, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return &acc, nil
}
