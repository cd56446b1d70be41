package out_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	okrout "okr/internal/modules/okr/adapter/out"
	"okr/internal/modules/okr/domain"
	apperrors "okr/internal/platform/errors"
)

type memBlobs map[string][]byte

func (m memBlobs) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memBlobs) Put(_ context.Context, key string, value []byte) error {
	m[key] = append([]byte(nil), value...)
	return nil
}

func TestObjectiveStoreRoundTrip(t *testing.T) {
	t.Parallel()
	blobs := memBlobs{}
	store := okrout.NewBlobObjectiveStore(blobs, "okr-data")
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	want := domain.Collection{{
		ID:        "o-1",
		Title:     "Grow revenue",
		Category:  domain.CategoryBusiness,
		StartDate: domain.NewDate(2026, 1, 1),
		EndDate:   domain.NewDate(2026, 3, 31),
		KeyResults: []domain.KeyResult{{
			ID: "k-1", Title: "MRR", Target: 1000, Current: 250,
			History: []domain.HistoryEntry{{Date: domain.NewDate(2026, 2, 1), Value: 250}},
		}},
	}}
	require.NoError(t, store.Save(ctx, want))
	require.Contains(t, string(blobs["okr-data"]), `"schema_version": 1`)

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestDecodeAcceptsLegacyArray(t *testing.T) {
	t.Parallel()
	legacy := `[{"title":"Old","description":"","startDate":"2025-01-01T00:00:00.000Z","endDate":"","keyResults":[{"title":"kr","target":10,"current":3}]}]`
	got, err := okrout.Decode([]byte(legacy))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "", got[0].ID)
	require.Equal(t, domain.NewDate(2025, 1, 1), got[0].StartDate)
	require.True(t, got[0].EndDate.IsZero())
	require.Equal(t, 30, got[0].Progress())
}

func TestDecodeRejectsMalformedData(t *testing.T) {
	t.Parallel()
	for _, payload := range []string{"", "{not json", `{"schema_version":99,"objectives":[]}`, `[{"startDate":"tomorrow"}]`} {
		_, err := okrout.Decode([]byte(payload))
		require.True(t, errors.Is(err, apperrors.ErrMalformedData), "payload %q: %v", payload, err)
	}
}

func TestEncodeEmptyCollectionWritesArray(t *testing.T) {
	t.Parallel()
	payload, err := okrout.Encode(nil)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"objectives": []`)
}
