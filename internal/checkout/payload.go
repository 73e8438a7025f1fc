package checkout

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PayloadKind distinguishes the two shapes a decoded scan can take.
type PayloadKind int

const (
	PayloadSingle PayloadKind = iota // one product lookup key
	PayloadCart                      // {productId: quantity} set
)

func (k PayloadKind) String() string {
	if k == PayloadCart {
		return "cart"
	}
	return "single"
}

// CartEntry is one {productId: quantity} pair of a cart payload.
type CartEntry struct {
	ProductID string
	Quantity  int
}

// Payload is a parsed scan.
type Payload struct {
	Kind PayloadKind
	Raw  string
	// LookupKey is set for PayloadSingle.
	LookupKey string
	// Entries and Signature are set for PayloadCart. Entries are sorted by
	// product id; entries with a non-positive quantity are kept and skipped
	// at resolve time.
	Entries   []CartEntry
	Signature string
}

// ParsePayload recognizes a cart payload first (plain JSON, base64 or a URL
// carrying the base64 under data=) and falls back to a single-item key.
func ParsePayload(raw string) Payload {
	trimmed := strings.TrimSpace(raw)
	for _, candidate := range cartCandidates(trimmed) {
		if entries, ok := decodeCartObject(candidate); ok {
			return Payload{
				Kind:      PayloadCart,
				Raw:       raw,
				Entries:   entries,
				Signature: signature(entries),
			}
		}
	}
	return Payload{Kind: PayloadSingle, Raw: raw, LookupKey: singleKey(trimmed)}
}

// cartCandidates lists the byte strings that may hold a cart object, in the
// order they are tried.
func cartCandidates(s string) [][]byte {
	out := [][]byte{[]byte(s)}
	if data, ok := dataParam(s); ok {
		if b, err := decodeBase64(data); err == nil {
			out = append(out, b)
		}
	}
	if b, err := decodeBase64(s); err == nil {
		out = append(out, b)
	}
	return out
}

func dataParam(s string) (string, bool) {
	idx := strings.Index(s, "data=")
	if idx < 0 {
		return "", false
	}
	if u, err := url.Parse(s); err == nil {
		if v := u.Query().Get("data"); v != "" {
			return v, true
		}
	}
	// Not a parseable URL: take the raw value up to the next separator.
	v := s[idx+len("data="):]
	if end := strings.IndexAny(v, "&#"); end >= 0 {
		v = v[:end]
	}
	if unescaped, err := url.QueryUnescape(v); err == nil {
		v = unescaped
	}
	return v, v != ""
}

// decodeBase64 accepts the standard and URL-safe alphabets, with or without
// padding.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "+", "_", "/", " ", "+").Replace(s)
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.StdEncoding.DecodeString(s)
}

func decodeCartObject(b []byte) ([]CartEntry, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil || len(obj) == 0 {
		return nil, false
	}
	entries := make([]CartEntry, 0, len(obj))
	for k, v := range obj {
		if !isNumeric(k) {
			return nil, false
		}
		entries = append(entries, CartEntry{ProductID: k, Quantity: quantityOf(v)})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, _ := strconv.ParseInt(entries[i].ProductID, 10, 64)
		b, _ := strconv.ParseInt(entries[j].ProductID, 10, 64)
		if a != b {
			return a < b
		}
		return entries[i].ProductID < entries[j].ProductID
	})
	return entries, true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// quantityOf reads a JSON number or numeric string; anything else is 0.
func quantityOf(v json.RawMessage) int {
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 0
		}
		n = json.Number(strings.TrimSpace(s))
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}

// signature is the JSON of the sorted [productId, quantity] pairs.
func signature(entries []CartEntry) string {
	pairs := make([][2]any, len(entries))
	for i, e := range entries {
		pairs[i] = [2]any{e.ProductID, e.Quantity}
	}
	b, _ := json.Marshal(pairs)
	return string(b)
}

// singleKey extracts the lookup key of a single-item payload.
func singleKey(s string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		if id, ok := obj["id"]; ok && id != nil {
			return stringify(id)
		}
		if qr, ok := obj["qr_code_data"]; ok && qr != nil {
			return stringify(qr)
		}
	}
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
