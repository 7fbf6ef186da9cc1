package mapdata

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/easytrack/backend/internal/domain"
)

// timestamp layouts accepted for updatedAt, most specific first
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseRecords decodes a record-source payload into typed records.
// Both a bare JSON array and a {"data": [...]} envelope are accepted.
//
// Only the payload shape can fail. Inside the array, elements that are not
// objects are skipped and fields that do not parse are left unset, so one
// malformed record never costs the rest of the payload.
func ParseRecords(data []byte) ([]domain.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "empty payload")
	}

	switch trimmed[0] {
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "decode records: %v", err)
		}

		records := make([]domain.RawRecord, 0, len(elements))
		for _, element := range elements {
			if rec, ok := parseRecord(element); ok {
				records = append(records, rec)
			}
		}
		return records, nil
	case '{':
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "decode envelope: %v", err)
		}
		inner := bytes.TrimSpace(envelope.Data)
		if len(inner) == 0 || inner[0] != '[' {
			return nil, errors.Wrap(ErrInvalidInput, "envelope has no data array")
		}
		return ParseRecords(inner)
	default:
		return nil, errors.Wrap(ErrInvalidInput, "payload is not a record list")
	}
}

// parseRecord decodes one array element field by field
func parseRecord(element json.RawMessage) (domain.RawRecord, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil || fields == nil {
		return domain.RawRecord{}, false
	}

	return domain.RawRecord{
		ID:          textField(fields["_id"]),
		Title:       textField(fields["title"]),
		Category:    textField(fields["category"]),
		Description: textField(fields["description"]),
		Latitude:    numberField(fields["latitude"]),
		Longitude:   numberField(fields["longitude"]),
		UpdatedAt:   timeField(fields["updatedAt"]),
		Alert:       boolField(fields["alert"]),
	}, true
}

// textField reads a string, or the literal text of a number (numeric ids)
func textField(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// numberField reads a JSON number or a numeric string
func numberField(raw json.RawMessage) *float64 {
	var f float64
	if json.Unmarshal(raw, &f) == nil && len(raw) > 0 && string(raw) != "null" {
		return &f
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &v
		}
	}
	return nil
}

func timeField(raw json.RawMessage) *time.Time {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func boolField(raw json.RawMessage) bool {
	var b bool
	return json.Unmarshal(raw, &b) == nil && b
}
