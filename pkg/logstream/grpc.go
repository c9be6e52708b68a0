package logstream

import (
	"context"
	"crypto/tls"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	loggerPackage = "logger.v1alpha1"
	loggerService = loggerPackage + ".LoggerAPI"
	ReadMethod    = "/" + loggerService + "/Read"
)

// The log service messages, declared in code:
//
//	message ReadRequest  { string log_name = 1; string address = 2; uint64 timestamp = 3; bytes signed_hash = 4; }
//	message ReadResponse { uint64 timestamp = 1; bytes data = 2; }
var (
	readRequestDesc  protoreflect.MessageDescriptor
	readResponseDesc protoreflect.MessageDescriptor
)

func init() { //nolint:gochecknoinits
	file, err := protodesc.NewFile(loggerFileDescriptor(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Errorf("invalid log service descriptor: %w", err))
	}
	readRequestDesc = file.Messages().ByName("ReadRequest")
	readResponseDesc = file.Messages().ByName("ReadResponse")
}

func loggerFileDescriptor() *descriptorpb.FileDescriptorProto {
	field := func(name, jsonName string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			JsonName: proto.String(jsonName),
			Number:   proto.Int32(number),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:     typ.Enum(),
		}
	}
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("logger/v1alpha1/log.proto"),
		Package: proto.String(loggerPackage),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("ReadRequest"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("log_name", "logName", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					field("address", "address", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					field("timestamp", "timestamp", 3, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
					field("signed_hash", "signedHash", 4, descriptorpb.FieldDescriptorProto_TYPE_BYTES),
				},
			},
			{
				Name: proto.String("ReadResponse"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("timestamp", "timestamp", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
					field("data", "data", 2, descriptorpb.FieldDescriptorProto_TYPE_BYTES),
				},
			},
		},
	}
}

func EncodeReadRequest(req ReadRequest) *dynamicpb.Message {
	fields := readRequestDesc.Fields()
	msg := dynamicpb.NewMessage(readRequestDesc)
	msg.Set(fields.ByName("log_name"), protoreflect.ValueOfString(req.LogName))
	msg.Set(fields.ByName("address"), protoreflect.ValueOfString(req.Address.Hex()))
	msg.Set(fields.ByName("timestamp"), protoreflect.ValueOfUint64(req.Timestamp))
	msg.Set(fields.ByName("signed_hash"), protoreflect.ValueOfBytes(req.SignedHash))
	return msg
}

func NewReadResponse() *dynamicpb.Message {
	return dynamicpb.NewMessage(readResponseDesc)
}

func NewReadRequest() *dynamicpb.Message {
	return dynamicpb.NewMessage(readRequestDesc)
}

func DecodeReadResponse(msg *dynamicpb.Message) Chunk {
	fields := readResponseDesc.Fields()
	return Chunk{
		Timestamp: msg.Get(fields.ByName("timestamp")).Uint(),
		Data:      msg.Get(fields.ByName("data")).Bytes(),
	}
}

// EncodeReadResponse builds the wire message of a chunk, as the log service sends it.
func EncodeReadResponse(c Chunk) *dynamicpb.Message {
	fields := readResponseDesc.Fields()
	msg := NewReadResponse()
	msg.Set(fields.ByName("timestamp"), protoreflect.ValueOfUint64(c.Timestamp))
	msg.Set(fields.ByName("data"), protoreflect.ValueOfBytes(c.Data))
	return msg
}

// GRPCReader reads logs from the log service over gRPC.
type GRPCReader struct {
	conn *grpc.ClientConn
}

// DialGRPC creates a reader for target. The connection is established lazily on first read.
func DialGRPC(target string, useTLS bool, opts ...grpc.DialOption) (*GRPCReader, error) {
	creds := insecure.NewCredentials()
	if useTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create log service client for %s: %w", target, err)
	}
	return &GRPCReader{conn: conn}, nil
}

func NewGRPCReader(conn *grpc.ClientConn) *GRPCReader {
	return &GRPCReader{conn: conn}
}

func (r *GRPCReader) Read(ctx context.Context, req ReadRequest) (Receiver, error) {
	cs, err := r.conn.NewStream(ctx, &grpc.StreamDesc{StreamName: "Read", ServerStreams: true}, ReadMethod)
	if err != nil {
		return nil, err
	}
	if err := cs.SendMsg(EncodeReadRequest(req)); err != nil {
		return nil, err
	}
	if err := cs.CloseSend(); err != nil {
		return nil, err
	}
	return grpcReceiver{cs: cs}, nil
}

func (r *GRPCReader) Close() error {
	return r.conn.Close()
}

type grpcReceiver struct {
	cs grpc.ClientStream
}

func (g grpcReceiver) Recv() (Chunk, error) {
	msg := NewReadResponse()
	if err := g.cs.RecvMsg(msg); err != nil {
		return Chunk{}, err
	}
	return DecodeReadResponse(msg), nil
}

// compile time check whether the GRPCReader implements the Reader interface
var _ Reader = (*GRPCReader)(nil)
