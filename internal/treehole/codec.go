// Package treehole implements thread.Client over gRPC.
//
// Messages travel as JSON under the "json" content-subtype, which only a
// server registering the same codec understands (the in-process test server
// does). The production TreeHole service speaks protobuf only: a real
// deployment needs the generated protobuf types of the TreeHole service
// swapped in for the structs in messages.go and the codec dropped, behind the
// same thread.Client interface.
package treehole

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the gRPC content-subtype the client speaks
// ("application/grpc+json").
const codecName = "json"

// jsonCodec carries TreeHole messages as JSON over gRPC framing.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
