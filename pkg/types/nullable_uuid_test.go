package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableUUIDDistinguishesAbsentNullAndValue(t *testing.T) {
	type payload struct {
		CustomerRef NullableUUID `json:"customer_ref"`
	}

	var withValue payload
	require.NoError(t, json.Unmarshal([]byte(`{"customer_ref": "00000000-0000-0000-0000-000000000001"}`), &withValue))
	assert.True(t, withValue.CustomerRef.Valid)
	require.NotNil(t, withValue.CustomerRef.Value)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", withValue.CustomerRef.Value.String())

	var withNull payload
	require.NoError(t, json.Unmarshal([]byte(`{"customer_ref": null}`), &withNull))
	assert.True(t, withNull.CustomerRef.Valid)
	assert.Nil(t, withNull.CustomerRef.Value)

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.CustomerRef.Valid)
}

func TestNullableUUIDRejectsGarbage(t *testing.T) {
	var n NullableUUID
	assert.Error(t, n.UnmarshalJSON([]byte(`"not-a-uuid"`)))
	assert.False(t, n.Valid)
}

func TestNullableUUIDCloneDoesNotAlias(t *testing.T) {
	id := uuid.New()
	original := NullableUUID{Valid: true, Value: &id}

	clone := original.Clone()
	require.NotNil(t, clone.Value)
	assert.Equal(t, id, *clone.Value)
	assert.NotSame(t, original.Value, clone.Value)
}
