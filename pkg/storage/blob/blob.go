package blob

import "context"

// Object identifies a stored blob. URL is what clients download; StorageID is
// what Delete needs.
type Object struct {
	URL       string `json:"url"`
	StorageID string `json:"storageId"`
}

// Store is the opaque blob storage port. Implementations may be eventually
// consistent, but a Delete is assumed effective before any later Put with the
// same hint is relied upon.
type Store interface {
	Put(ctx context.Context, data []byte, pathHint string) (Object, error)
	Delete(ctx context.Context, storageID string) error
}
