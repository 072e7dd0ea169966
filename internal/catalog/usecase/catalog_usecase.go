package usecase

import (
	"context"
	"errors"
	"strings"

	"nft-drop/internal/catalog/domain/model"
	"nft-drop/internal/catalog/domain/repository"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/logger"
)

// CatalogUsecaseInterface defines the collection read use cases
type CatalogUsecaseInterface interface {
	ListCollections(ctx context.Context) ([]*model.Collection, error)
	GetCollection(ctx context.Context, slug string) (*model.Collection, error)
	Revalidate(ctx context.Context, slug string) error
	ImageURL(img *model.Image, width int) string
}

// CatalogUsecase implements the catalog use cases
type CatalogUsecase struct {
	repo   repository.CollectionRepository
	images repository.ImageResolver
	log    logger.Logger
}

// NewCatalogUsecase creates a new instance of CatalogUsecase
func NewCatalogUsecase(repo repository.CollectionRepository, images repository.ImageResolver, log logger.Logger) *CatalogUsecase {
	return &CatalogUsecase{
		repo:   repo,
		images: images,
		log:    log.WithComponent("catalog"),
	}
}

// ListCollections returns all collections for the landing page
func (uc *CatalogUsecase) ListCollections(ctx context.Context) ([]*model.Collection, error) {
	collections, err := uc.repo.ListCollections(ctx)
	if err != nil {
		uc.log.WithContext(ctx).WithError(err).Error("failed to list collections")
		return nil, err
	}
	uc.log.WithContext(ctx).Debugf("listed %d collections", len(collections))
	return collections, nil
}

// GetCollection returns the collection with the given slug
func (uc *CatalogUsecase) GetCollection(ctx context.Context, slug string) (*model.Collection, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.NewValidationError("collection id is required").WithComponent("catalog")
	}

	collection, err := uc.repo.GetCollectionBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrCollectionNotFound) {
			return nil, apperrors.NewNotFoundError("collection").
				WithComponent("catalog").
				WithDetail("slug", slug).
				WithCause(err)
		}
		uc.log.WithContext(ctx).WithError(err).Errorf("failed to fetch collection %q", slug)
		return nil, err
	}
	return collection, nil
}

// Revalidate purges cached content after the content store reports a change.
// Without a cache in front of the repository it is a no-op.
func (uc *CatalogUsecase) Revalidate(ctx context.Context, slug string) error {
	cache, ok := uc.repo.(repository.CollectionCache)
	if !ok {
		return nil
	}
	if err := cache.Invalidate(ctx, slug); err != nil {
		return apperrors.NewInfrastructureError("failed to purge catalog cache").WithCause(err)
	}
	uc.log.WithContext(ctx).Infof("catalog cache purged (slug=%q)", slug)
	return nil
}

// ImageURL resolves an image field to a CDN URL
func (uc *CatalogUsecase) ImageURL(img *model.Image, width int) string {
	return uc.images.URL(img, width)
}
