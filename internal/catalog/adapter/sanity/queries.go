package sanity

// collectionProjection selects the fields the pages render, dereferencing the creator
const collectionProjection = `{
  _id,
  title,
  address,
  description,
  nftCollectionName,
  mainImage {
    asset
  },
  previewImage {
    asset
  },
  slug {
    current
  },
  creator-> {
    _id,
    name,
    address,
    bio,
    image {
      asset
    },
    slug {
      current
    },
  },
}`

// ListCollectionsQuery returns every collection document
const ListCollectionsQuery = `*[_type == "collection"]` + collectionProjection

// CollectionBySlugQuery returns the first collection whose slug equals $id, or null
const CollectionBySlugQuery = `*[_type == "collection" && slug.current == $id][0]` + collectionProjection
