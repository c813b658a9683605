package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	w, err := NewWriter(DefaultSheet)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader([]string{"studentId", "firstName", "birthDate"}))

	birth := time.Date(2002, time.June, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, w.WriteRow([]interface{}{"2024-12345", "Juan", birth}))
	require.NoError(t, w.WriteRow([]interface{}{"2024-12346", "Ana", nil}))

	data, err := w.Bytes()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	header, rows, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"studentId", "firstName", "birthDate"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-12345", rows[0][0])
	assert.Equal(t, "Juan", rows[0][1])
	// The date cell must come back in its ISO display format, proving it was
	// stored as a typed date with the custom number format applied.
	assert.Equal(t, "2002-06-08", rows[0][2])
}

func TestReadRaggedRows(t *testing.T) {
	w, err := NewWriter("")
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader([]string{"a", "b", "c"}))
	require.NoError(t, w.WriteRow([]interface{}{"only-first"}))

	data, err := w.Bytes()
	require.NoError(t, err)

	header, rows, err := Read(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, header, 3)
	require.Len(t, rows, 1)
	assert.Equal(t, "only-first", rows[0][0])
}

func TestReadRejectsGarbage(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("not an xlsx stream")))
	assert.Error(t, err)
}
