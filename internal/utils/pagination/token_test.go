package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "exp-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, createdAt, decodedAt)
	assert.Equal(t, "exp-1", decodedID)

	// Non-UTC times are normalised, the instant is preserved
	local := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	decodedAt, _, err = DecodeToken(EncodeToken(local, "exp-2"))
	require.NoError(t, err)
	assert.True(t, local.Equal(decodedAt))
}

func TestDecodeTokenError(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{name: "invalid base64", token: "this is not base64!", wantMsg: "base64 decode"},
		{name: "missing separator", token: base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")), wantMsg: "split"},
		{name: "missing id", token: base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|")), wantMsg: "split"},
		{name: "invalid date", token: base64.URLEncoding.EncodeToString([]byte("notadate|exp-1")), wantMsg: "created_at parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestAfter(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)

	assert.True(t, After(t0, "a", t1, "a"), "older rows come after the cursor")
	assert.False(t, After(t1, "a", t0, "a"), "newer rows come before the cursor")
	assert.True(t, After(t0, "a", t0, "b"), "ties break on id descending")
	assert.False(t, After(t0, "b", t0, "b"), "the cursor row itself is excluded")
}
