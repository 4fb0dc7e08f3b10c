package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Text is a caller-supplied string field. Spreadsheet imports send some cells
// (pax, luggage, amount) as JSON numbers, so numbers and booleans are accepted
// and kept in their literal form. null decodes to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("invalid text value %s", data)
		}
		*t = Text(strconv.FormatBool(b))
	case '{', '[':
		return fmt.Errorf("invalid text value %s: objects and arrays are not allowed", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid text value %s: %w", data, err)
		}
		*t = Text(n.String())
	}
	return nil
}

func (t Text) String() string { return string(t) }
