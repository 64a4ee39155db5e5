package empresa

import (
	"encoding/json"
	"strings"

	"github.com/okian/painel/internal/domain/monthlabel"
)

// MonthLabeler turns a registration date value into a bucket label.
type MonthLabeler interface {
	LabelValue(v any) string
}

// PartnerQueryError is the message shown when the partner name is blank.
const PartnerQueryError = "Digite o nome do sócio"

// GroupByField partitions records by the value of field. Records where the
// field is absent or falsy go to NotInformed.
func GroupByField(records []Record, field string) *Groups {
	groups := NewOrdered[[]Record]()
	for _, rec := range records {
		key := NotInformed
		if v, ok := rec.Get(field); ok && truthy(v) {
			key = keyText(v)
		}
		groups.Update(key, func(cur []Record) []Record { return append(cur, rec) })
	}
	return groups
}

// FilterPresent keeps records whose field is truthy.
func FilterPresent(records []Record, field string) []Record {
	return filter(records, func(r Record) bool { return r.Truthy(field) })
}

// FilterAbsent keeps records whose field is absent or falsy.
func FilterAbsent(records []Record, field string) []Record {
	return filter(records, func(r Record) bool { return !r.Truthy(field) })
}

// FilterStatus keeps records whose status is exactly status.
func FilterStatus(records []Record, status string) []Record {
	return filter(records, func(r Record) bool {
		s, ok := r.String(FieldStatus)
		return ok && s == status
	})
}

// CountActiveByMonth counts active records per registration month label.
// Records without a registration date are counted under monthlabel.InvalidDate.
func CountActiveByMonth(records []Record, labeler MonthLabeler) *Counts {
	counts := NewOrdered[int]()
	for _, rec := range FilterStatus(records, StatusActive) {
		label := monthlabel.InvalidDate
		if v, ok := rec.Get(FieldRegistry); ok {
			label = labeler.LabelValue(v)
		}
		counts.Update(label, func(n int) int { return n + 1 })
	}
	return counts
}

// PartnerResult lists the ids of the companies a partner belongs to.
type PartnerResult struct {
	Partner   string            `json:"socio"`
	Companies []json.RawMessage `json:"empresas"`
}

// InputError is the data-shaped answer to a blank required input.
type InputError struct {
	Error string `json:"error"`
}

// NormalizePartner trims the user-supplied name and reports whether it is usable.
func NormalizePartner(name string) (string, *InputError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &InputError{Error: PartnerQueryError}
	}
	return name, nil
}

// CompaniesByPartner returns the ids of records whose partner list contains
// name. Records without an id contribute null.
func CompaniesByPartner(records []Record, name string) PartnerResult {
	ids := make([]json.RawMessage, 0)
	for _, rec := range records {
		if !hasPartner(rec, name) {
			continue
		}
		id := json.RawMessage("null")
		if v, ok := rec.Get(FieldID); ok {
			if b, err := marshal(v); err == nil {
				id = b
			}
		}
		ids = append(ids, id)
	}
	return PartnerResult{Partner: name, Companies: ids}
}

func hasPartner(rec Record, name string) bool {
	v, ok := rec.Get(FieldPartners)
	if !ok {
		return false
	}
	partners, ok := v.([]any)
	if !ok {
		return false
	}
	for _, p := range partners {
		if s, ok := p.(string); ok && s == name {
			return true
		}
	}
	return false
}

func filter(records []Record, keep func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
