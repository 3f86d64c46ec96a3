package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString decodes a JSON string, number or null into its string form.
// The extraction collaborator is inconsistent about scalar types (amounts
// arrive as numbers or strings, missing fields as null); the shape is
// pinned down here instead of letting ad hoc values leak into the core.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported scalar shape %q", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string {
	return string(f)
}
