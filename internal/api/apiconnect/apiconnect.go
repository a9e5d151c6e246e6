// Package apiconnect wires the api messages to Connect handlers and clients.
//
// It follows the layout of protoc-gen-connect-go output: one procedure constant
// per RPC, a Handler interface and constructor per service, and a typed client.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/patungan/internal/api"
)

// Package name prefix shared by all service paths.
const packageName = "patungan.v1."

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}
