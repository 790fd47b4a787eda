// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package grpcserver

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is registered under the wire name "proto" so that a client
// dialing with the default grpc-go codec selection picks this codec up
// without extra CallOption plumbing. The messages it marshals are plain
// Go structs from internal/rpcapi rather than protoc-generated types;
// see reservation.proto for the contract they mirror field-for-field.
const codecName = "proto"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
