// Package empresa models the upstream company records and the pure transforms
// the dashboard reports apply to them.
package empresa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Recognized record fields.
const (
	FieldRegime   = "regimeTributario"
	FieldTaxID    = "cpfCnpj"
	FieldStatus   = "status"
	FieldRegistry = "dataRegistro"
	FieldPartners = "socios"
	FieldActivity = "ramoAtividade"
	FieldID       = "id"
)

// Status literals.
const (
	StatusActive   = "ativa"
	StatusInactive = "inativa"
)

// NotInformed is the bucket for records missing the grouping field.
const NotInformed = "Não informado"

// ErrNotArray is returned when a collection body is valid JSON but not an array.
var ErrNotArray = errors.New("collection is not a JSON array")

// Record is one upstream object. No schema is enforced: the original bytes are
// kept for rendering, so field order and number formatting survive a round trip.
type Record struct {
	raw    json.RawMessage
	fields map[string]any
}

// NewRecord builds a Record from a field map. Mostly useful in tests.
func NewRecord(fields map[string]any) Record {
	raw, err := marshal(fields)
	if err != nil {
		raw = json.RawMessage("{}")
	}
	return Record{raw: raw, fields: fields}
}

// UnmarshalJSON keeps a copy of the raw object and decodes its fields.
// Non-object items are accepted and behave as records with no fields.
func (r *Record) UnmarshalJSON(b []byte) error {
	r.raw = append(json.RawMessage(nil), b...)
	r.fields = nil
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	return dec.Decode(&r.fields)
}

// MarshalJSON writes the record exactly as it was received.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Get returns a field value and whether the field is present.
func (r Record) Get(field string) (any, bool) {
	v, ok := r.fields[field]
	return v, ok
}

// Truthy reports whether the field holds a truthy value.
func (r Record) Truthy(field string) bool {
	v, ok := r.fields[field]
	return ok && truthy(v)
}

// String returns the field when it is a JSON string.
func (r Record) String(field string) (string, bool) {
	s, ok := r.fields[field].(string)
	return s, ok
}

// Decode reads a JSON array of records.
func Decode(body []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// truthy follows the usual loose rules: absent, null, false, 0 and "" are
// falsy; everything else, empty arrays and objects included, is truthy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case string:
		return val != ""
	default:
		return true
	}
}

// keyText renders a value the way it reads when used as an object key.
func keyText(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return val.String()
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			if item != nil {
				parts[i] = keyText(item)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// marshal encodes without HTML escaping so rendered text reads like the source.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
