package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2026, 11, 2, 15, 0, 0, 0, time.Local)

	for _, in := range []string{"2026-11-02 15:00", "2026-11-02T15:00", " 2026-11-02 15:00 "} {
		got, err := parseTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	got, err := parseTime("2026-11-02T15:00:00Z")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC).Equal(got))

	got, err = parseTime("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseTime("next tuesday")
	assert.Error(t, err)
}
