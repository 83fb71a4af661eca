package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"

	// dateTimeOutLayout keeps sub-second digits when present and drops the
	// fraction entirely for whole seconds.
	dateTimeOutLayout = "2006-01-02T15:04:05.999999"
)

// dateTimeLayouts are tried in order when decoding a DateTime.
var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

var (
	dateType      = reflect.TypeFor[Date]()
	dateTimeType  = reflect.TypeFor[DateTime]()
	specialtyType = reflect.TypeFor[Specialty]()
)

// decodeError reports a JSON value that cannot become t. It is an
// *json.UnmarshalTypeError so the decoder records the offending field path
// in Field.
func decodeError(value string, t reflect.Type) error {
	return &json.UnmarshalTypeError{Value: value, Type: t}
}

// TemporalExample returns a sample of the accepted format when t is Date or
// DateTime, and "" for any other type.
func TemporalExample(t reflect.Type) string {
	switch t {
	case dateType:
		return "2000-01-31"
	case dateTimeType:
		return "2025-09-20T14:30:00"
	}
	return ""
}

// IsSpecialty reports whether t is the Specialty enum.
func IsSpecialty(t reflect.Type) bool {
	return t == specialtyType
}

// Date is a calendar date without time or zone, encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the given calendar date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return decodeError(string(b), dateType)
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return decodeError(string(b), dateType)
	}
	d.Time = t
	return nil
}

// DateTime is a local date-time without zone, encoded as
// YYYY-MM-DDTHH:MM:SS with optional fractional seconds. Precision is
// microseconds, the resolution of a Postgres timestamp.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateTimeOutLayout))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return decodeError(string(b), dateTimeType)
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.Truncate(time.Microsecond)
			return nil
		}
	}
	return decodeError(string(b), dateTimeType)
}

func (s *Specialty) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return decodeError(string(b), specialtyType)
	}
	v := Specialty(raw)
	if !v.Valid() {
		return decodeError(string(b), specialtyType)
	}
	*s = v
	return nil
}
