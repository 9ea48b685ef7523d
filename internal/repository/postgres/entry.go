package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

var _ model.EntryStore = (*EntryRepository)(nil)

type EntryRepository struct {
	db *Connection
}

func NewEntryRepository(db *Connection) *EntryRepository {
	return &EntryRepository{
		db: db,
	}
}

func (r *EntryRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Entry, error) {
	query := `
		SELECT id, account_id, name, phone_number, status, position, created_at, updated_at
		FROM entries
		WHERE account_id = $1
		ORDER BY position ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		var status string
		if err := rows.Scan(
			&e.ID, &e.AccountID, &e.Name, &e.PhoneNumber, &status, &e.Order, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if st, ok := model.ParseStatus(status); ok {
			e.Status = st
		} else {
			e.Status = model.StatusAvailable
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}

// Append inserts entry at the tail: its order is the account's current
// entry count.
func (r *EntryRepository) Append(ctx context.Context, entry model.Entry) (model.Entry, error) {
	query := `
		INSERT INTO entries (id, account_id, name, phone_number, status, position, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, COUNT(*), NOW(), NOW()
		FROM entries WHERE account_id = $2
		RETURNING position, created_at, updated_at`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Status == "" {
		entry.Status = model.StatusAvailable
	}

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.AccountID, entry.Name, entry.PhoneNumber, string(entry.Status),
	).Scan(&entry.Order, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}

	return entry, nil
}

func (r *EntryRepository) UpdateContact(ctx context.Context, accountID, id uuid.UUID, name, phoneNumber string) error {
	query := `UPDATE entries SET name = $3, phone_number = $4, updated_at = NOW()
			  WHERE account_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, accountID, id, name, phoneNumber)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return requireAffected(res)
}

func (r *EntryRepository) UpdateStatus(ctx context.Context, accountID, id uuid.UUID, status model.Status) error {
	query := `UPDATE entries SET status = $3, updated_at = NOW()
			  WHERE account_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, accountID, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	return requireAffected(res)
}

func (r *EntryRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	query := `DELETE FROM entries WHERE account_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, accountID, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return requireAffected(res)
}

// DeleteAndCompact deletes the entry and renumbers the remainder to
// 0..n-1 in one transaction.
func (r *EntryRepository) DeleteAndCompact(ctx context.Context, accountID, id uuid.UUID) error {
	const deleteQuery = `DELETE FROM entries WHERE account_id = $1 AND id = $2`
	const compactQuery = `
		UPDATE entries e SET position = ranked.rn - 1, updated_at = NOW()
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position, created_at) AS rn
			FROM entries WHERE account_id = $1
		) ranked
		WHERE e.id = ranked.id AND e.position <> ranked.rn - 1`

	err := withTx(ctx, r.db.DB, func(tx DBTX) error {
		res, err := tx.ExecContext(ctx, deleteQuery, accountID, id)
		if err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, compactQuery, accountID); err != nil {
			return fmt.Errorf("failed to compact entries: %w", err)
		}
		return nil
	})
	return err
}

func (r *EntryRepository) SetOrder(ctx context.Context, accountID, id uuid.UUID, order int) error {
	query := `UPDATE entries SET position = $3, updated_at = NOW()
			  WHERE account_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, accountID, id, order)
	if err != nil {
		return fmt.Errorf("failed to set entry order: %w", err)
	}
	return requireAffected(res)
}

// SetOrders assigns each id its index in ids within one transaction. Any
// unknown id rolls the whole batch back.
func (r *EntryRepository) SetOrders(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) error {
	query := `UPDATE entries SET position = $3, updated_at = NOW()
			  WHERE account_id = $1 AND id = $2`

	return withTx(ctx, r.db.DB, func(tx DBTX) error {
		for i, id := range ids {
			res, err := tx.ExecContext(ctx, query, accountID, id, i)
			if err != nil {
				return fmt.Errorf("failed to set order of %s: %w", id, err)
			}
			if err := requireAffected(res); err != nil {
				return fmt.Errorf("entry %s: %w", id, err)
			}
		}
		return nil
	})
}
