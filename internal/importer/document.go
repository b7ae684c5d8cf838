package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

const (
	msgInvalidStructure = "Import failed: Invalid JSON structure. Expected 'restaurants' array."
	msgNoRestaurants    = "Import failed: No restaurants found in JSON data."
)

var (
	errInvalidStructure = errors.New("invalid document structure")
	errNoRestaurants    = errors.New("no restaurants in document")
	errNotObject        = errors.New("expected a JSON object")
	errNotArray         = errors.New("expected a JSON array")
	errNameNotString    = errors.New("name must be a string")
)

// Document is the top level of an import payload.  Restaurants are kept
// raw so that one malformed element fails only its own unit.
type Document struct {
	Restaurants []json.RawMessage `json:"restaurants"`
}

// RestaurantInput is one element of the restaurants array.
type RestaurantInput struct {
	Name  Text            `json:"name"`
	Menus json.RawMessage `json:"menus"`
}

// MenuInput is one element of a restaurant's menus array.  Items may be
// listed under either key; menu_items wins whenever it is present.
type MenuInput struct {
	Name      Text            `json:"name"`
	MenuItems json.RawMessage `json:"menu_items"`
	Dishes    json.RawMessage `json:"dishes"`
}

// Items returns the raw item list, preferring menu_items over dishes.
func (m MenuInput) Items() json.RawMessage {
	if present(m.MenuItems) {
		return m.MenuItems
	}
	if present(m.Dishes) {
		return m.Dishes
	}
	return nil
}

// ItemInput is one element of a menu's item list.
type ItemInput struct {
	Name  Text  `json:"name"`
	Price Price `json:"price"`
}

// Text is a name field.  Strings are kept in Value; any other literal is
// kept in Raw so the unit can be reported by what was sent.
type Text struct {
	Value string
	Raw   string
}

// UnmarshalJSON accepts any literal; non-strings are rejected later by Valid.
func (t *Text) UnmarshalJSON(b []byte) error {
	lit := bytes.TrimSpace(b)
	*t = Text{}
	if bytes.Equal(lit, []byte("null")) {
		return nil
	}
	if len(lit) > 0 && lit[0] == '"' {
		return json.Unmarshal(lit, &t.Value)
	}
	t.Raw = string(lit)
	return nil
}

// Valid reports whether the name was a JSON string (or missing).
func (t Text) Valid() bool { return t.Raw == "" }

// Blank reports whether the name is missing, null, whitespace only,
// false or an empty array/object.
func (t Text) Blank() bool {
	if t.Raw != "" {
		return blankLiteral([]byte(t.Raw))
	}
	return strings.TrimSpace(t.Value) == ""
}

// Trimmed is the name without surrounding whitespace.
func (t Text) Trimmed() string { return strings.TrimSpace(t.Value) }

// String is the name for log messages.
func (t Text) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return t.Trimmed()
}

// parseDocument checks the top-level shape of the payload and returns the
// raw restaurant elements.
func parseDocument(raw json.RawMessage) ([]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := decodeObject(raw, &top); err != nil {
		return nil, errInvalidStructure
	}
	list, ok := top["restaurants"]
	if !ok {
		return nil, errInvalidStructure
	}
	doc := Document{}
	if err := decodeArray(list, &doc.Restaurants); err != nil {
		return nil, errInvalidStructure
	}
	if len(doc.Restaurants) == 0 {
		return nil, errNoRestaurants
	}
	return doc.Restaurants, nil
}

// decodeObject decodes raw into dst only if raw is a JSON object.
func decodeObject(raw json.RawMessage, dst any) error {
	lit := bytes.TrimSpace(raw)
	if len(lit) == 0 || lit[0] != '{' {
		return errNotObject
	}
	return json.Unmarshal(lit, dst)
}

// decodeArray decodes raw into dst only if raw is a JSON array.
func decodeArray(raw json.RawMessage, dst *[]json.RawMessage) error {
	lit := bytes.TrimSpace(raw)
	if len(lit) == 0 || lit[0] != '[' {
		return errNotArray
	}
	return json.Unmarshal(lit, dst)
}

// decodeList decodes an optional array: missing, null or false yields no
// elements.
func decodeList(raw json.RawMessage) ([]json.RawMessage, error) {
	if !present(raw) {
		return nil, nil
	}
	var out []json.RawMessage
	if err := decodeArray(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// present reports whether an optional list field carries a value.  null and
// false both count as absent, so a false menu_items falls back to dishes.
func present(raw json.RawMessage) bool {
	lit := bytes.TrimSpace(raw)
	return len(lit) > 0 && !bytes.Equal(lit, []byte("null")) && !bytes.Equal(lit, []byte("false"))
}

// blankLiteral matches the non-string literals that count as missing.
func blankLiteral(lit []byte) bool {
	lit = bytes.TrimSpace(lit)
	switch {
	case len(lit) == 0, bytes.Equal(lit, []byte("null")), bytes.Equal(lit, []byte("false")):
		return true
	case lit[0] == '[':
		var v []any
		return json.Unmarshal(lit, &v) == nil && len(v) == 0
	case lit[0] == '{':
		var v map[string]any
		return json.Unmarshal(lit, &v) == nil && len(v) == 0
	default:
		return false
	}
}
