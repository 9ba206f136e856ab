package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 4, got.Day())
	assert.Equal(t, Eastern, got.Location())

	_, err = ParseDate("03/04/2026")
	assert.Error(t, err)
}

func TestToEastern(t *testing.T) {
	utc := time.Date(2026, 7, 1, 16, 0, 0, 0, time.UTC)
	et := ToEastern(utc)
	assert.Equal(t, 12, et.Hour())
	assert.True(t, utc.Equal(et))
}
