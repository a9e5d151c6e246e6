// Package api defines the request and response messages exchanged by the
// patungan Connect services, together with the JSON codec that carries them.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name the messages are registered under.
const CodecName = "json"

// JSONCodec marshals plain Go message structs with encoding/json.
// Unknown fields are rejected so that typos in requests surface as errors.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(message); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
