package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnl-research/internal/domain"
)

func TestMerge_NewOverwritesExisting(t *testing.T) {
	existing := []domain.Bar{
		{TimestampSec: 100, Close: 1.0},
		{TimestampSec: 200, Close: 2.0},
	}
	incoming := []domain.Bar{
		{TimestampSec: 200, Close: 2.5}, // revised candle
		{TimestampSec: 300, Close: 3.0},
	}

	merged := Merge(existing, incoming)

	require.Len(t, merged, 3)
	assert.Equal(t, int64(100), merged[0].TimestampSec)
	assert.Equal(t, 2.5, merged[1].Close, "revised candle must win")
	assert.Equal(t, int64(300), merged[2].TimestampSec)
}

func TestMerge_SortedAscending(t *testing.T) {
	merged := Merge(nil, []domain.Bar{
		{TimestampSec: 300},
		{TimestampSec: 100},
		{TimestampSec: 200},
	})

	require.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		assert.Less(t, merged[i-1].TimestampSec, merged[i].TimestampSec)
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))

	existing := []domain.Bar{{TimestampSec: 100}}
	assert.Equal(t, existing, Merge(existing, nil))
	assert.Equal(t, existing, Merge(nil, existing))
}

func TestMergeAndSave_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mint.json")
	bars := []domain.Bar{
		{TimestampSec: 100, Close: 1.0},
		{TimestampSec: 160, Close: 1.1},
	}

	first, err := MergeAndSave(path, bars)
	require.NoError(t, err)

	second, err := MergeAndSave(path, bars)
	require.NoError(t, err)

	assert.Equal(t, first, second, "merging the same bars twice must not change the series")
	assert.Equal(t, second, LoadSeries(path))
}

func TestMergeAndSave_ExtendsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mint.json")

	_, err := MergeAndSave(path, []domain.Bar{{TimestampSec: 100, Close: 1.0}})
	require.NoError(t, err)

	merged, err := MergeAndSave(path, []domain.Bar{{TimestampSec: 160, Close: 1.1}})
	require.NoError(t, err)

	require.Len(t, merged, 2)
	assert.Equal(t, int64(100), merged[0].TimestampSec)
	assert.Equal(t, int64(160), merged[1].TimestampSec)
}
