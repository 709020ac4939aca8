package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// NullableUUID distinguishes the three shapes a UUID field can take in a
// request body: absent (Valid=false), an explicit null (Valid=true,
// Value=nil), and a concrete id. PUT /cart/customer relies on this to tell
// "clear the customer" apart from "field forgotten".
type NullableUUID struct {
	Valid bool
	Value *uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	n.Valid = true
	if bytes.Equal(trimmed, []byte("null")) {
		n.Value = nil
		return nil
	}

	var parsed uuid.UUID
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		n.Valid = false
		return err
	}
	n.Value = &parsed
	return nil
}

// Clone returns a deep copy so cart snapshots never alias request memory.
func (n NullableUUID) Clone() NullableUUID {
	out := NullableUUID{Valid: n.Valid}
	if n.Value != nil {
		v := *n.Value
		out.Value = &v
	}
	return out
}
