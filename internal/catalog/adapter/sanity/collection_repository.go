package sanity

import (
	"context"

	"nft-drop/internal/catalog/domain/model"
	apperrors "nft-drop/internal/shared/errors"
)

// CollectionRepository reads collections through the content query API
type CollectionRepository struct {
	client *Client
}

// NewCollectionRepository creates a content-store backed repository
func NewCollectionRepository(client *Client) *CollectionRepository {
	return &CollectionRepository{client: client}
}

// ListCollections returns every collection; an empty store yields an empty slice
func (r *CollectionRepository) ListCollections(ctx context.Context) ([]*model.Collection, error) {
	collections := []*model.Collection{}
	if _, err := r.client.Query(ctx, ListCollectionsQuery, nil, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

// GetCollectionBySlug fetches one collection by its slug
func (r *CollectionRepository) GetCollectionBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	var collection model.Collection
	found, err := r.client.Query(ctx, CollectionBySlugQuery, map[string]interface{}{"id": slug}, &collection)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.ErrCollectionNotFound
	}
	return &collection, nil
}
