package delegation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrParse indicates the payload could not be decoded into a delegation.
	ErrParse = errors.New("delegation parse error")

	// ErrUnsupportedEncoding is returned for non-JSON payloads. A compact
	// binary encoding is reserved in the wire contract but has no agreed
	// format, so anything routed there fails closed rather than risking a
	// silent mis-parse.
	ErrUnsupportedEncoding = errors.New("unsupported delegation encoding")
)

// Parse deserializes a delegation payload. JSON is the only supported
// encoding; payloads that do not look like a JSON object are rejected via
// ErrUnsupportedEncoding.
func Parse(payload []byte) (*Delegation, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrParse)
	}
	if trimmed[0] != '{' {
		return parseCompact(trimmed)
	}

	var d Delegation
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if d.Delegator == "" || d.Delegate == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrParse)
	}

	return &d, nil
}

// parseCompact is the reserved binary decoding path.
func parseCompact(payload []byte) (*Delegation, error) {
	return nil, fmt.Errorf("%w: compact encoding is not implemented", ErrUnsupportedEncoding)
}

// Encode serializes a delegation back to its JSON wire form.
func Encode(d *Delegation) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode delegation: %w", err)
	}
	return data, nil
}
