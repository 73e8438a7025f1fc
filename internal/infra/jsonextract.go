package infra

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNoJSON is returned when a backend body holds no balanced JSON value.
var ErrNoJSON = errors.New("no JSON value in response body")

// ExtractJSON returns the first valid JSON object or array inside body.
// The PHP backend sometimes prints warnings or an HTML error page around the
// JSON it meant to send; everything outside the value is ignored. Braces and
// brackets inside string literals do not count. A bracketed fragment that is
// not JSON (`[function.mysqli-connect]`, `body{margin:0}`) is skipped and the
// scan resumes at the next opening bracket.
func ExtractJSON(body []byte) ([]byte, error) {
	offset := 0
	for {
		idx := bytes.IndexAny(body[offset:], "{[")
		if idx < 0 {
			return nil, ErrNoJSON
		}
		start := offset + idx
		if end, ok := balancedEnd(body, start); ok && json.Valid(body[start:end]) {
			return body[start:end], nil
		}
		offset = start + 1
	}
}

// balancedEnd scans from the opening bracket at start and returns the index
// just past its matching close. ok is false on a mismatched close or when
// body ends first.
func balancedEnd(body []byte, start int) (end int, ok bool) {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(body); i++ {
		ch := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
