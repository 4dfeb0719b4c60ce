package models

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotData_MarshalStable(t *testing.T) {
	d := NewSnapshotData(
		ItemDetails{
			Title:    "example.com",
			Username: "alice",
			Password: "s3cret",
			URL:      "https://example.com",
			Tags:     "work",
		},
		[]KeyValue{{Key: "pin", Value: "1234"}},
	)

	s, err := d.Marshal()
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "snapshot_data", []byte(s))
}

func TestSnapshotData_RoundTrip(t *testing.T) {
	d := NewSnapshotData(
		ItemDetails{Title: "t", Username: "u", Password: "p", Note: "n"},
		[]KeyValue{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
	)

	s, err := d.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalSnapshotData(s)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestNewSnapshotData_EmptyKeyValues(t *testing.T) {
	d := NewSnapshotData(ItemDetails{Title: "t"}, nil)
	require.NotNil(t, d.KeyValues)
	assert.Empty(t, d.KeyValues)
}
