package database

import (
	"testing"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBScanNullToNilPointer(t *testing.T) {
	var col JSONB[*models.Coordinates]

	require.NoError(t, col.Scan(nil))
	assert.Nil(t, col.Data)

	// jsonb 'null' also lands as a nil pointer
	require.NoError(t, col.Scan([]byte(`null`)))
	assert.Nil(t, col.Data)
}

func TestJSONBScanValue(t *testing.T) {
	var col JSONB[*models.Coordinates]

	require.NoError(t, col.Scan([]byte(`{"latitude":11.5,"longitude":76.2}`)))
	require.NotNil(t, col.Data)
	assert.Equal(t, 11.5, col.Data.Latitude)
	assert.Equal(t, 76.2, col.Data.Longitude)

	val, err := col.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"latitude":11.5,"longitude":76.2}`, string(val.([]byte)))
}
