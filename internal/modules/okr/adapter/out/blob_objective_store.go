package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"okr/internal/modules/okr/domain"
	okrout "okr/internal/modules/okr/port/out"
	apperrors "okr/internal/platform/errors"
)

// BlobObjectiveStore serializes the whole collection into one blob.
type BlobObjectiveStore struct {
	blobs okrout.BlobStore
	key   string
}

type document struct {
	SchemaVersion int                `json:"schema_version"`
	Objectives    []domain.Objective `json:"objectives"`
}

func NewBlobObjectiveStore(blobs okrout.BlobStore, key string) okrout.ObjectiveStore {
	return &BlobObjectiveStore{blobs: blobs, key: key}
}

func (s *BlobObjectiveStore) Load(ctx context.Context) (domain.Collection, bool, error) {
	payload, ok, err := s.blobs.Get(ctx, s.key)
	if err != nil || !ok {
		return nil, false, err
	}
	collection, err := Decode(payload)
	if err != nil {
		return nil, false, err
	}
	return collection, true, nil
}

func (s *BlobObjectiveStore) Save(ctx context.Context, collection domain.Collection) error {
	payload, err := Encode(collection)
	if err != nil {
		return err
	}
	return s.blobs.Put(ctx, s.key, payload)
}

func Encode(collection domain.Collection) ([]byte, error) {
	doc := document{SchemaVersion: domain.SchemaVersion, Objectives: collection}
	if doc.Objectives == nil {
		doc.Objectives = []domain.Objective{}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal objectives: %w", err)
	}
	return payload, nil
}

// Decode accepts the versioned document and the bare array written by
// earlier versions.
func Decode(payload []byte) (domain.Collection, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", apperrors.ErrMalformedData)
	}
	if trimmed[0] == '[' {
		var objectives []domain.Objective
		if err := json.Unmarshal(trimmed, &objectives); err != nil {
			return nil, fmt.Errorf("%w: decode objectives: %v", apperrors.ErrMalformedData, err)
		}
		return domain.Collection(objectives), nil
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode objectives: %v", apperrors.ErrMalformedData, err)
	}
	if doc.SchemaVersion > domain.SchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d is newer than %d", apperrors.ErrMalformedData, doc.SchemaVersion, domain.SchemaVersion)
	}
	return domain.Collection(doc.Objectives), nil
}
