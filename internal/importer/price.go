package importer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PriceKind tells which JSON shape a price arrived in.
type PriceKind int

const (
	PriceAbsent PriceKind = iota // key missing from the item object
	PriceNull                    // explicit null
	PriceNumber                  // JSON number
	PriceString                  // JSON string, possibly decorated ("$12.50")
	PriceOther                   // bool, array or object
)

// Price is the raw price of an imported menu item.  The value is decoded
// at the boundary so the rest of the import never inspects untyped JSON.
type Price struct {
	Kind   PriceKind       // which branch of the union is set
	Number json.Number     // set when Kind == PriceNumber
	Text   string          // set when Kind == PriceString
	Raw    json.RawMessage // literal as received, for PriceOther and messages
}

// UnmarshalJSON classifies the literal without failing on unexpected types;
// an unusable price is reported later as an invalid price format.
func (p *Price) UnmarshalJSON(b []byte) error {
	lit := bytes.TrimSpace(b)
	*p = Price{Raw: append(json.RawMessage(nil), lit...)}
	switch {
	case len(lit) == 0:
		p.Kind = PriceAbsent
	case bytes.Equal(lit, []byte("null")):
		p.Kind = PriceNull
	case lit[0] == '"':
		p.Kind = PriceString
		return json.Unmarshal(lit, &p.Text)
	case lit[0] == '-' || (lit[0] >= '0' && lit[0] <= '9'):
		p.Kind = PriceNumber
		p.Number = json.Number(lit)
	default:
		p.Kind = PriceOther
	}
	return nil
}

// Blank reports whether the price counts as missing: absent, null, an
// all-whitespace string, false or an empty array/object.
func (p Price) Blank() bool {
	switch p.Kind {
	case PriceAbsent, PriceNull:
		return true
	case PriceString:
		return strings.TrimSpace(p.Text) == ""
	case PriceOther:
		return blankLiteral(p.Raw)
	default:
		return false
	}
}

// Value returns the price as a plain Go value suitable for NormalizePrice.
func (p Price) Value() any {
	switch p.Kind {
	case PriceNumber:
		return p.Number
	case PriceString:
		return p.Text
	case PriceOther:
		var v any
		if err := json.Unmarshal(p.Raw, &v); err != nil {
			return nil
		}
		return v
	default:
		return nil
	}
}

// Normalize converts the price to a decimal amount.
func (p Price) Normalize() (float64, bool) {
	return NormalizePrice(p.Value())
}

// String renders the price the way it was supplied.
func (p Price) String() string {
	switch p.Kind {
	case PriceString:
		return p.Text
	case PriceNumber:
		return p.Number.String()
	default:
		return string(p.Raw)
	}
}

// NormalizePrice turns a loosely typed price into a decimal amount.
// Numbers pass through unchanged, negatives included.  Strings are
// stripped of every character other than ASCII digits and '.', and
// the remainder must parse as a float; "$12.50" becomes 12.5 while
// "invalid_price", "." and "1.2.3" are rejected.  Any other type is
// rejected.  NormalizePrice never panics.
func NormalizePrice(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		return parsePriceString(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parsePriceString(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
