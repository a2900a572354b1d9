package hpc

import (
	"encoding/binary"
	"fmt"

	"google.golang.org/grpc"
)

const (
	serviceName    = "gridiron.hpc.Transport"
	exchangeMethod = "/" + serviceName + "/Exchange"
)

// transportServer is implemented by Communicator to accept the
// server-side half of every peer's exchange stream.
type transportServer interface {
	Exchange(stream grpc.ServerStream) error
}

func exchangeHandler(srv any, stream grpc.ServerStream) error {
	return srv.(transportServer).Exchange(stream)
}

// serviceDesc is hand-written in place of protoc-gen-go output: the
// payload is already opaque bytes by the time it reaches this package (see
// codec.go), so there is no .proto message worth generating.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*transportServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Exchange",
			Handler:       exchangeHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "gridiron/hpc.proto",
}

// encodeFrame packs a stage stamp and payload into the single wire record
// gRPC transmits per SendMsg/RecvMsg call: an 8-byte little-endian tag
// followed by the opaque body.
func encodeFrame(tag uint64, payload []byte) []byte {
	buf := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint64(buf, tag)
	copy(buf[8:], payload)
	return buf
}

func decodeFrame(raw []byte) (tag uint64, payload []byte, err error) {
	if len(raw) < 8 {
		return 0, nil, fmt.Errorf("hpc: short frame: %d bytes", len(raw))
	}
	tag = binary.LittleEndian.Uint64(raw[:8])
	payload = append([]byte(nil), raw[8:]...)
	return tag, payload, nil
}
