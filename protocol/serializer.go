package protocol

import "encoding/json"

// Serializer defines the contract for serializing and deserializing event payloads.
// This allows downstream consumers to choose their preferred format (JSON, Protobuf, etc.)
// without the market knowing about it.
type Serializer interface {
	// Marshal serializes a Go struct (e.g. a trade event) into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes bytes into a Go struct.
	// v must be a pointer to the target struct.
	Unmarshal(data []byte, v any) error
}

// DefaultJSONSerializer encodes payloads with encoding/json.
type DefaultJSONSerializer struct{}

func (DefaultJSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (DefaultJSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
