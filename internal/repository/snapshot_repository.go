package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kerdl/ktmuscrap-sub000/internal/compare"
	"github.com/kerdl/ktmuscrap-sub000/internal/models"
)

// SnapshotRepository persists the latest parsed page per schedule kind and
// the notification of the last update cycle, so restarts resume with the
// previous state instead of reporting the whole schedule as appeared.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository instantiates a snapshot repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SavePage upserts the page payload for its kind.
func (r *SnapshotRepository) SavePage(ctx context.Context, page *models.Page) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal %s page: %w", page.Kind, err)
	}

	query := `
		INSERT INTO schedule_snapshots (kind, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query, string(page.Kind), payload, time.Now().UTC())
	return err
}

// LoadPage returns the stored page of the given kind, or nil when the
// service has never saved one.
func (r *SnapshotRepository) LoadPage(ctx context.Context, kind models.Kind) (*models.Page, error) {
	var payload []byte

	query := `SELECT payload FROM schedule_snapshots WHERE kind = $1`
	if err := r.db.QueryRowxContext(ctx, query, string(kind)).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	page := &models.Page{}
	if err := json.Unmarshal(payload, page); err != nil {
		return nil, fmt.Errorf("unmarshal %s page: %w", kind, err)
	}
	return page, nil
}

// SaveNotify stores the outcome of the last update cycle that changed
// anything.
func (r *SnapshotRepository) SaveNotify(ctx context.Context, notify *compare.Notify) error {
	payload, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notify: %w", err)
	}

	query := `
		INSERT INTO last_notify (id, payload, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query, payload, time.Now().UTC())
	return err
}

// LoadNotify returns the last stored notification, or nil when none exists.
func (r *SnapshotRepository) LoadNotify(ctx context.Context) (*compare.Notify, error) {
	var payload []byte

	query := `SELECT payload FROM last_notify WHERE id = 1`
	if err := r.db.QueryRowxContext(ctx, query).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	notify := &compare.Notify{}
	if err := json.Unmarshal(payload, notify); err != nil {
		return nil, fmt.Errorf("unmarshal notify: %w", err)
	}
	return notify, nil
}
