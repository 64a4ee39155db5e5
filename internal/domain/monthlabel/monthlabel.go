// Package monthlabel turns registration dates into month+year bucket labels.
//
// Labels are locale dependent. Instead of relying on whatever locale data the
// host happens to ship, the supported locales and styles are enumerated here
// and selected explicitly through configuration.
package monthlabel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Style selects how a month label is written.
type Style string

// Supported styles.
const (
	// StyleShortMonthYear writes the abbreviated month and the full year, e.g. "jan. de 2024".
	StyleShortMonthYear Style = "short-month-year"
	// StyleLongMonthYear writes the full month name, e.g. "janeiro de 2024".
	StyleLongMonthYear Style = "long-month-year"
	// StyleNumericMonthYear writes "01/2024" regardless of locale.
	StyleNumericMonthYear Style = "numeric-month-year"
)

// InvalidDate is the label given to values that cannot be read as a date.
const InvalidDate = "Invalid Date"

// Sentinel errors.
var (
	ErrUnsupportedLocale = errors.New("unsupported month locale")
	ErrUnsupportedStyle  = errors.New("unsupported month style")
)

type names struct {
	short   [12]string
	long    [12]string
	pattern map[Style]string // month, year
}

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
	language.Spanish,
}

var catalog = []names{
	{
		short: [12]string{"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez."},
		long:  [12]string{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
		pattern: map[Style]string{
			StyleShortMonthYear: "%s de %d",
			StyleLongMonthYear:  "%s de %d",
		},
	},
	{
		short: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		long:  [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		pattern: map[Style]string{
			StyleShortMonthYear: "%s %d",
			StyleLongMonthYear:  "%s %d",
		},
	},
	{
		short: [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
		long:  [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		pattern: map[Style]string{
			StyleShortMonthYear: "%s %d",
			StyleLongMonthYear:  "%s de %d",
		},
	},
}

var matcher = language.NewMatcher(supported)

// Formatter renders month labels for one locale, style and time zone.
type Formatter struct {
	tag   language.Tag
	style Style
	loc   *time.Location
	names names
}

// New resolves locale against the supported set. A nil loc means UTC.
func New(locale string, style Style, loc *time.Location) (*Formatter, error) {
	switch style {
	case StyleShortMonthYear, StyleLongMonthYear, StyleNumericMonthYear:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStyle, style)
	}

	requested, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedLocale, locale, err)
	}
	_, idx, conf := matcher.Match(requested)
	if conf == language.No {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}

	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{
		tag:   supported[idx],
		style: style,
		loc:   loc,
		names: catalog[idx],
	}, nil
}

// Locale reports the supported locale the request resolved to.
func (f *Formatter) Locale() string { return f.tag.String() }

// Style reports the configured style.
func (f *Formatter) Style() Style { return f.style }

// Label formats t in the formatter's zone.
func (f *Formatter) Label(t time.Time) string {
	t = t.In(f.loc)
	m := int(t.Month()) - 1
	switch f.style {
	case StyleLongMonthYear:
		return fmt.Sprintf(f.names.pattern[StyleLongMonthYear], f.names.long[m], t.Year())
	case StyleNumericMonthYear:
		return fmt.Sprintf("%02d/%d", m+1, t.Year())
	default:
		return fmt.Sprintf(f.names.pattern[StyleShortMonthYear], f.names.short[m], t.Year())
	}
}

// LabelValue labels a decoded JSON value, or returns InvalidDate.
func (f *Formatter) LabelValue(v any) string {
	t, ok := f.ParseValue(v)
	if !ok {
		return InvalidDate
	}
	return f.Label(t)
}

// Layouts without a zone. They are read as wall-clock time in the formatter's
// zone, so a date-only "2024-03-01" always lands in March.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseValue reads a decoded JSON value as an instant. Strings are tried as
// RFC 3339 first and then as zone-less layouts; numbers are Unix milliseconds;
// null is the epoch.
func (f *Formatter) ParseValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.UnixMilli(0), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(val)), true
	case json.Number:
		ms, err := val.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return f.ParseValue(ms)
	case string:
		return f.parseString(val)
	default:
		return time.Time{}, false
	}
}

func (f *Formatter) parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
