// package models defines the data model for the littlescreen service
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Validator is implemented by request payloads that check their own required fields.
type Validator interface {
	Validate() error // Validate returns a field-level error for the first invalid field
}

// FlexibleID accepts a JSON string or number and keeps its string form.
//
// Catalog ids arrive as numbers from some clients and strings from others.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexibleID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexibleID(n.String())
	return nil
}

// String returns the identifier as text
func (f FlexibleID) String() string {
	return string(f)
}
