package api

import (
	"bytes"
	"encoding/json"
)

// Amount is a money value kept exactly as the server formatted it. The server
// may send it as a JSON string or number; it is never computed client-side.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}
