package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "nft-drop context key " + string(c)
}

// WalletAddressKey is the key for the connected wallet address in context.Context
const WalletAddressKey = contextKey("walletAddress")

// SessionIDKey is the key for the wallet session ID in context.Context
const SessionIDKey = contextKey("sessionID")

// RequestIDKey is the key for the request ID in context.Context
const RequestIDKey = contextKey("requestID")

// CollectionSlugKey is the key for the collection slug being served
const CollectionSlugKey = contextKey("collectionSlug")

// ComponentKey is the key for component name in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for operation name in context.Context
const OperationKey = contextKey("operation")
