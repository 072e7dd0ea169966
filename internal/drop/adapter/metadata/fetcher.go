package metadata

import (
	"context"
	"fmt"
	"strings"

	"nft-drop/internal/drop/config"
	"nft-drop/internal/drop/domain/model"
	apperrors "nft-drop/internal/shared/errors"
	"nft-drop/internal/shared/logger"

	"github.com/go-resty/resty/v2"
)

const ipfsScheme = "ipfs://"

// Fetcher loads token metadata over HTTP, resolving ipfs:// URIs through a gateway
type Fetcher struct {
	http    *resty.Client
	gateway string
	log     logger.Logger
}

// NewFetcher creates a metadata fetcher from the drop configuration
func NewFetcher(cfg *config.Config, log logger.Logger) *Fetcher {
	r := resty.New().
		SetTimeout(cfg.MetadataTimeout).
		SetRetryCount(cfg.MetadataRetries).
		SetHeader("Accept", "application/json")
	return &Fetcher{
		http:    r,
		gateway: cfg.IPFSGateway,
		log:     log.WithComponent("metadata"),
	}
}

// ResolveURI rewrites ipfs:// URIs to the gateway and passes http(s) URIs through
func (f *Fetcher) ResolveURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case strings.HasPrefix(uri, ipfsScheme):
		path := strings.TrimPrefix(uri, ipfsScheme)
		path = strings.TrimPrefix(path, "ipfs/")
		return f.gateway + path, nil
	case strings.HasPrefix(uri, "https://"), strings.HasPrefix(uri, "http://"):
		return uri, nil
	default:
		return "", apperrors.NewValidationError("unsupported token URI").WithDetail("uri", uri)
	}
}

// Fetch loads the metadata document at uri. The image field is resolved like the URI itself.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (*model.TokenMetadata, error) {
	target, err := f.ResolveURI(uri)
	if err != nil {
		return nil, err
	}

	var meta model.TokenMetadata
	resp, err := f.http.R().
		SetContext(ctx).
		SetResult(&meta).
		ForceContentType("application/json").
		Get(target)
	if err != nil {
		return nil, apperrors.NewUpstreamError("metadata request failed").
			WithComponent("metadata").WithCause(err)
	}
	if resp.IsError() {
		return nil, apperrors.NewUpstreamError(fmt.Sprintf("metadata host returned %d", resp.StatusCode())).
			WithComponent("metadata").
			WithDetail("uri", target)
	}

	if meta.Image != "" {
		if image, err := f.ResolveURI(meta.Image); err == nil {
			meta.Image = image
		} else {
			f.log.WithContext(ctx).Debugf("leaving unsupported image URI %q as is", meta.Image)
		}
	}
	return &meta, nil
}
