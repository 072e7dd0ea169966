package sanity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"nft-drop/internal/catalog/config"
	"nft-drop/internal/catalog/domain/model"
)

// ImageURLBuilder renders asset references as CDN URLs
type ImageURLBuilder struct {
	cdnHost   string
	projectID string
	dataset   string
}

// NewImageURLBuilder creates a builder for the configured project and dataset
func NewImageURLBuilder(cfg *config.Config) *ImageURLBuilder {
	return &ImageURLBuilder{
		cdnHost:   strings.TrimRight(cfg.CDNHost, "/"),
		projectID: cfg.ProjectID,
		dataset:   cfg.Dataset,
	}
}

// assetRef is a parsed "image-<id>-<W>x<H>-<format>" reference
type assetRef struct {
	id     string
	width  int
	height int
	format string
}

func parseAssetRef(ref string) (assetRef, bool) {
	parts := strings.Split(ref, "-")
	if len(parts) < 4 || parts[0] != "image" {
		return assetRef{}, false
	}
	format := parts[len(parts)-1]
	dims := strings.SplitN(parts[len(parts)-2], "x", 2)
	if len(dims) != 2 || format == "" {
		return assetRef{}, false
	}
	w, errW := strconv.Atoi(dims[0])
	h, errH := strconv.Atoi(dims[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return assetRef{}, false
	}
	return assetRef{
		id:     strings.Join(parts[1:len(parts)-2], "-"),
		width:  w,
		height: h,
		format: format,
	}, true
}

// URL returns the CDN URL for img, scaled to width when width > 0.
// Images without an asset or with a malformed reference yield "".
func (b *ImageURLBuilder) URL(img *model.Image, width int) string {
	if !img.HasAsset() {
		return ""
	}
	ref, ok := parseAssetRef(img.Asset.Ref)
	if !ok {
		return ""
	}
	u := fmt.Sprintf("%s/images/%s/%s/%s-%dx%d.%s",
		b.cdnHost, b.projectID, b.dataset, ref.id, ref.width, ref.height, ref.format)
	if width > 0 {
		q := url.Values{}
		q.Set("w", strconv.Itoa(width))
		q.Set("auto", "format")
		u += "?" + q.Encode()
	}
	return u
}
