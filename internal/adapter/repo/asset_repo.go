package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vidembed/internal/domain"
	"vidembed/internal/infra"
)

const (
	qCreateAssetsTable = `
--sql video_assets.create_table
CREATE TABLE IF NOT EXISTS video_assets (
	id               UUID PRIMARY KEY,
	storage_key      TEXT NOT NULL,
	url              TEXT NOT NULL,
	original_name    TEXT NOT NULL DEFAULT '',
	mime             TEXT NOT NULL,
	bytes            BIGINT NOT NULL,
	duration_seconds DOUBLE PRECISION,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	qInsertAsset = `
--sql video_assets.insert
INSERT INTO video_assets (id, storage_key, url, original_name, mime, bytes, duration_seconds)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at;`

	qSelectAssetByID = `
--sql video_assets.select_by_id
SELECT id::text, storage_key, url, original_name, mime, bytes, duration_seconds, created_at
FROM video_assets
WHERE id = $1;`

	qListRecentAssets = `
--sql video_assets.list_recent
SELECT id::text, storage_key, url, original_name, mime, bytes, duration_seconds, created_at
FROM video_assets
ORDER BY created_at DESC
LIMIT $1;`
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	db infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(db infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{db: db}
}

// EnsureSchema creates the assets table when it does not exist yet.
func (r *AssetRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, qCreateAssetsTable); err != nil {
		return fmt.Errorf("create video_assets: %w", err)
	}
	return nil
}

// Save inserts asset and fills in CreatedAt.
func (r *AssetRepositoryPG) Save(ctx context.Context, asset *domain.Asset) error {
	row := r.db.QueryRow(ctx, qInsertAsset,
		asset.ID, asset.StorageKey, asset.URL, asset.OriginalName, asset.MIMEType, asset.Bytes, asset.DurationSeconds)
	if err := row.Scan(&asset.CreatedAt); err != nil {
		return fmt.Errorf("insert video asset: %w", err)
	}
	return nil
}

// GetByID returns one asset or domain.ErrNotFound.
func (r *AssetRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	var a domain.Asset
	err := r.db.QueryRow(ctx, qSelectAssetByID, id).Scan(
		&a.ID, &a.StorageKey, &a.URL, &a.OriginalName, &a.MIMEType, &a.Bytes, &a.DurationSeconds, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListRecent returns the newest assets first.
func (r *AssetRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.Asset, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, qListRecentAssets, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.ID, &a.StorageKey, &a.URL, &a.OriginalName, &a.MIMEType, &a.Bytes, &a.DurationSeconds, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)
