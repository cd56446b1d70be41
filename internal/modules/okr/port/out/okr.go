package out

import (
	"context"

	"okr/internal/modules/okr/domain"
)

// ObjectiveStore persists the whole collection as one unit. Load reports
// false when nothing has been stored yet.
type ObjectiveStore interface {
	Load(ctx context.Context) (domain.Collection, bool, error)
	Save(ctx context.Context, collection domain.Collection) error
}

// BlobStore is an opaque key-value store of serialized documents.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}
