// Package hpc implements the optional HPC-grade Communicator: the same
// contract as comm/tcp, carried over a persistent gRPC bidirectional
// stream per destination instead of a raw TCP socket.
//
// No Go MPI binding exists in this module's dependency pack (nor is one
// commonly vendored in the wider Go ecosystem the way mpi4py or Boost.MPI
// are elsewhere); grpc — present in the pack via go-mcast's direct
// dependency and aistore's (indirect, through k8s client-go) — is used
// here as the "external point-to-point messaging substrate" spec.md
// §4.E asks for. A raw byte codec bypasses protobuf entirely: frames are
// already opaque bytes by the time they reach this package (the Coder
// boundary sits above the Communicator), so there is nothing to gain from
// a generated message type.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package hpc

import (
	"fmt"
)

const codecName = "gridiron-raw"

// rawCodec marshals/unmarshals []byte verbatim, treating gRPC purely as a
// framed, multiplexed, flow-controlled byte pipe. Installed on both ends
// via grpc.ForceServerCodec/grpc.ForceCodec, so it never needs to be
// registered in the global encoding registry.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	b, ok := v.(*[]byte)
	if !ok {
		return nil, fmt.Errorf("hpc: rawCodec.Marshal: expected *[]byte, got %T", v)
	}
	return *b, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	b, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("hpc: rawCodec.Unmarshal: expected *[]byte, got %T", v)
	}
	*b = append((*b)[:0], data...)
	return nil
}

func (rawCodec) Name() string { return codecName }
