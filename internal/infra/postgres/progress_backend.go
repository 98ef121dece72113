package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type progressDocument struct {
	bun.BaseModel `bun:"table:progress_documents"`

	ProfileID string    `bun:"profile_id,pk"`
	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// ProgressBackend stores progress documents in the progress_documents table.
type ProgressBackend struct {
	db  *bun.DB
	now func() time.Time
}

func NewProgressBackend(db *bun.DB) *ProgressBackend {
	return &ProgressBackend{db: db, now: time.Now}
}

func (b *ProgressBackend) Read(ctx context.Context, profileID, key string) ([]byte, bool, error) {
	doc := new(progressDocument)
	err := b.db.NewSelect().
		Model(doc).
		Where("profile_id = ?", profileID).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(doc.Value), true, nil
}

func (b *ProgressBackend) Write(ctx context.Context, profileID, key string, value []byte) error {
	doc := &progressDocument{
		ProfileID: profileID,
		Key:       key,
		Value:     string(value),
		UpdatedAt: b.now().UTC(),
	}
	_, err := b.db.NewInsert().
		Model(doc).
		On("CONFLICT (profile_id, key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
