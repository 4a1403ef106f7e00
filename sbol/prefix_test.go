package sbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePrefixedRoundTrips(t *testing.T) {
	encoded := EncodePrefixed(":", 3, "translation")
	assert.Equal(t, "3:translation", encoded)

	index, value, err := DecodePrefixed(":", encoded)
	require.NoError(t, err)
	assert.Equal(t, 3, index)
	assert.Equal(t, "translation", value)
}

func TestSortedValuesOrdersByNumericPrefix(t *testing.T) {
	items := []string{"2:second", "0:zeroth", "1:first"}
	sorted, err := SortedValues(":", items)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeroth", "first", "second"}, sorted)
}

func TestSortedValuesDoubleColonSeparator(t *testing.T) {
	items := []string{"2::v2", "1::v1"}
	sorted, err := SortedValues("::", items)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, sorted)
}

func TestDecodePrefixedMalformedIsError(t *testing.T) {
	_, _, err := DecodePrefixed(":", "not-prefixed")
	require.Error(t, err)
}

func TestIndicesMatch(t *testing.T) {
	assert.True(t, IndicesMatch(":", []string{"0:a", "1:b"}, []string{"0:x", "1:y"}))
	assert.False(t, IndicesMatch(":", []string{"0:a", "1:b"}, []string{"0:x"}))
	assert.False(t, IndicesMatch(":", []string{"0:a", "0:b"}, []string{"0:x", "1:y"}))
}
