package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderReferenceRoundTrip(t *testing.T) {
	encoded := EncodeOrderReference(OrderReference{
		ClientID:  42,
		PlanType:  "premium",
		Timestamp: 1700000000,
	})
	require.NotEmpty(t, encoded)

	ref, ok := DecodeOrderReference(encoded)
	require.True(t, ok)
	assert.Equal(t, uint(42), ref.ClientID)
	assert.Equal(t, "premium", ref.PlanType)
	assert.Equal(t, int64(1700000000), ref.Timestamp)
}

func TestDecodeOrderReferenceTolerance(t *testing.T) {
	// gateways echo back whatever a client put there; none of these may panic
	// or yield a usable reference
	cases := []string{
		"",
		"plain text",
		"{",
		`{"plan_type":"premium"}`,
		`{"client_id":0,"plan_type":"premium"}`,
		`[1,2,3]`,
	}
	for _, raw := range cases {
		_, ok := DecodeOrderReference(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}
