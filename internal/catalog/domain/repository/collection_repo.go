package repository

import (
	"context"

	"nft-drop/internal/catalog/domain/model"
)

// CollectionRepository reads collection records from the content store
type CollectionRepository interface {
	ListCollections(ctx context.Context) ([]*model.Collection, error)
	// GetCollectionBySlug returns errors.ErrCollectionNotFound when nothing matches
	GetCollectionBySlug(ctx context.Context, slug string) (*model.Collection, error)
}

// CollectionCache is implemented by caching decorators that can be purged
type CollectionCache interface {
	CollectionRepository
	Invalidate(ctx context.Context, slug string) error
}

// ImageResolver turns image fields into URLs the browser can load
type ImageResolver interface {
	URL(img *model.Image, width int) string
}
