package model

// Slug is the content store's URL-safe identifier object
type Slug struct {
	Current string `json:"current"`
}

// Reference points at another document or asset
type Reference struct {
	Ref  string `json:"_ref"`
	Type string `json:"_type,omitempty"`
}

// Image is an image field; Asset is nil when no image was uploaded
type Image struct {
	Asset *Reference `json:"asset,omitempty"`
}

// HasAsset reports whether the image can be rendered
func (i *Image) HasAsset() bool {
	return i != nil && i.Asset != nil && i.Asset.Ref != ""
}

// Creator is the artist a collection references
type Creator struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Bio     string `json:"bio,omitempty"`
	Image   *Image `json:"image,omitempty"`
	Slug    *Slug  `json:"slug,omitempty"`
}

// Collection describes one NFT drop
type Collection struct {
	ID                string `json:"_id"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	NFTCollectionName string `json:"nftCollectionName,omitempty"`
	// Address is the drop contract; empty until the drop is deployed
	Address      string   `json:"address,omitempty"`
	MainImage    *Image   `json:"mainImage,omitempty"`
	PreviewImage *Image   `json:"previewImage,omitempty"`
	Slug         *Slug    `json:"slug,omitempty"`
	Creator      *Creator `json:"creator,omitempty"`
}

// SlugValue returns the current slug or ""
func (c *Collection) SlugValue() string {
	if c == nil || c.Slug == nil {
		return ""
	}
	return c.Slug.Current
}

// HasDrop reports whether a drop contract is attached to the collection
func (c *Collection) HasDrop() bool {
	return c != nil && c.Address != ""
}
