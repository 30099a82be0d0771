package utils

import (
	"encoding/json"
)

// OrderReference is the metadata blob attached to a remote order at creation
// time. It is the only channel carrying account identity through the
// asynchronous webhook path, so it must round-trip through the gateway
// unmodified. Timestamp is kept for audit, not for logic.
type OrderReference struct {
	ClientID  uint   `json:"client_id"`
	PlanType  string `json:"plan_type"`
	Timestamp int64  `json:"timestamp"`
}

func EncodeOrderReference(ref OrderReference) string {
	b, err := json.Marshal(ref)
	if err != nil {
		return ""
	}
	return string(b)
}

// DecodeOrderReference parses the blob back. A malformed or absent reference
// means "no account to update", not a hard failure, so the second return is
// false instead of an error.
func DecodeOrderReference(raw string) (OrderReference, bool) {
	var ref OrderReference
	if raw == "" {
		return ref, false
	}
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return OrderReference{}, false
	}
	if ref.ClientID == 0 {
		return OrderReference{}, false
	}
	return ref, true
}
