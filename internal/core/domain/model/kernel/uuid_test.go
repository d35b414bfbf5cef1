package kernel_test

import (
	"encoding/json"
	"testing"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a valid UUID", func(t *testing.T) {
		id := kernel.NewUUID()

		require.NoError(t, id.Validate())
		assert.NotEqual(t, uuid.Nil, id.Bytes())
	})

	t.Run("should create unique UUIDs", func(t *testing.T) {
		assert.False(t, kernel.NewUUID().IsEqual(kernel.NewUUID()))
	})
}

func TestUUIDFromString(t *testing.T) {
	const canonical = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "canonical form", input: canonical},
		{name: "braces", input: "{" + canonical + "}"},
		{name: "urn prefix", input: "urn:uuid:" + canonical},
		{name: "no hyphens", input: "550e8400e29b41d4a716446655440000"},
		{name: "garbage", input: "not-a-uuid", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "nil uuid", input: "00000000-0000-0000-0000-000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}

	t.Run("nil uuid reports not constructed", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip bytes", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		id, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(id))
	})

	t.Run("should reject wrong length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})
		require.Error(t, err)
	})

	t.Run("should reject all-zero bytes", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID

	require.NoError(t, kernel.NewUUID().Validate())
	require.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_JSON(t *testing.T) {
	type payload struct {
		OrderID kernel.UUID `json:"orderId"`
	}

	id := kernel.NewUUID()
	data, err := json.Marshal(payload{OrderID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":"`+id.String()+`"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, id.IsEqual(decoded.OrderID))
}
