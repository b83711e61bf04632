package domain

import "context"

// AssetRepository keeps track of uploaded assets.
type AssetRepository interface {
	Save(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	ListRecent(ctx context.Context, limit int) ([]Asset, error)
}
