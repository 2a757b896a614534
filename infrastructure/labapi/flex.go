package labapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexString accepts a JSON string, number, bool or null. The backend is not
// consistent about quoting ids and codes.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(b))
	return nil
}

func (f FlexString) String() string { return strings.TrimSpace(string(f)) }

// FlexInt accepts numbers and numeric strings. "", null and anything that is
// not a number read as 0 so one bad cell does not drop the whole list.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(fl))
	return nil
}

func (f FlexInt) Int() int { return int(f) }

// FlexBool accepts true/false, 1/0 and their string forms.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(b)), `"`)))
	switch s {
	case "1", "true", "yes", "y":
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f FlexBool) Bool() bool { return bool(f) }

// FlexDecimal is a money or quantity cell. Numbers and numeric strings
// decode exactly; "", null and garbage read as zero with Valid false.
type FlexDecimal struct {
	decimal.Decimal
	Valid bool
}

func (f *FlexDecimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	d, err := decimal.NewFromString(s)
	if s == "" || s == "null" || err != nil {
		*f = FlexDecimal{}
		return nil
	}
	*f = FlexDecimal{Decimal: d, Valid: true}
	return nil
}

func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return f.Decimal.MarshalJSON()
}
