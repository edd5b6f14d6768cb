package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	Init(nil)

	id, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, id, 64)

	require.NoError(t, (&Data{UserID: 7}).Write(id, time.Minute))

	var got Data
	require.NoError(t, got.Read(id))
	assert.Equal(t, uint64(7), got.UserID)

	require.NoError(t, Delete(id))
	require.ErrorIs(t, got.Read(id), ErrNoSession)
}

func TestReadUnknown(t *testing.T) {
	Init(nil)

	testCases := []struct {
		name string
		id   string
	}{
		{name: "empty id", id: ""},
		{name: "unknown id", id: "deadbeef"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Data
			require.ErrorIs(t, d.Read(tc.id), ErrNoSession)
		})
	}
}
