package bridge

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// Op is the link operation a Request performs.
type Op int32

// Operations.
const (
	OpStatus    Op = 0
	OpWrite     Op = 1
	OpReadUntil Op = 2
	// OpExchange writes Data, waits Settle and reads one reply. Nothing
	// else runs on the link in between.
	OpExchange Op = 3
)

func (o Op) String() string {
	switch o {
	case OpStatus:
		return "status"
	case OpWrite:
		return "write"
	case OpReadUntil:
		return "read_until"
	case OpExchange:
		return "exchange"
	}
	return fmt.Sprintf("op(%d)", int32(o))
}

// Request is sent from client to server.
type Request struct {
	Seq   uint32 `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Op    Op     `protobuf:"varint,2,opt,name=op,proto3" json:"op,omitempty"`
	Data  []byte `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
	Delim uint32 `protobuf:"varint,4,opt,name=delim,proto3" json:"delim,omitempty"`
	// Settle is in nanoseconds.
	Settle int64 `protobuf:"varint,5,opt,name=settle,proto3" json:"settle,omitempty"`
	// Framed reads the reply as a frame using Header and Window.
	Framed bool   `protobuf:"varint,6,opt,name=framed,proto3" json:"framed,omitempty"`
	Header []byte `protobuf:"bytes,7,opt,name=header,proto3" json:"header,omitempty"`
	Window int32  `protobuf:"varint,8,opt,name=window,proto3" json:"window,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Request) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Request) Reset() { *m = Request{} }

// String implements proto.Message.
func (m *Request) String() string { return proto.CompactTextString(m) }

// Reply answers the Request with the same Seq.
type Reply struct {
	Seq     uint32 `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Data    []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
	Error   string `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
	Timeout bool   `protobuf:"varint,4,opt,name=timeout,proto3" json:"timeout,omitempty"`
	Open    bool   `protobuf:"varint,5,opt,name=open,proto3" json:"open,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Reply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Reply) Reset() { *m = Reply{} }

// String implements proto.Message.
func (m *Reply) String() string { return proto.CompactTextString(m) }

// RemoteError is an error reported by the bridge server.
type RemoteError struct {
	Message string
}

// Error implements error.
func (e *RemoteError) Error() string {
	return "remote: " + e.Message
}
