//go:build unit || !integration

package logstream

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/gridlab/gridclient/pkg/signer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// startLogService serves the Read method of the log service on an in-memory listener. It
// echoes the request back in the first chunk, then sends data.
func startLogService(t *testing.T, data []string) *GRPCReader {
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.UnknownServiceHandler(func(_ interface{}, ss grpc.ServerStream) error {
		method, _ := grpc.MethodFromServerStream(ss)
		if method != ReadMethod {
			return status.Errorf(codes.Unimplemented, "unknown method %s", method)
		}
		req := NewReadRequest()
		if err := ss.RecvMsg(req); err != nil {
			return err
		}
		fields := req.Descriptor().Fields()
		echo := req.Get(fields.ByName("address")).String() + "|" + req.Get(fields.ByName("log_name")).String()
		if err := ss.SendMsg(EncodeReadResponse(Chunk{
			Timestamp: req.Get(fields.ByName("timestamp")).Uint(),
			Data:      []byte(echo),
		})); err != nil {
			return err
		}
		for i, d := range data {
			if err := ss.SendMsg(EncodeReadResponse(Chunk{Timestamp: uint64(i + 1), Data: []byte(d)})); err != nil {
				return err
			}
		}
		return nil
	}))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	reader, err := DialGRPC("passthrough:///bufnet", false,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })
	return reader
}

func TestGRPCReaderRoundTrip(t *testing.T) {
	reader := startLogService(t, []string{"line 1", "line 2"})

	key, err := signer.FromHex("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	clk := clock.NewMock()
	clk.Set(time.UnixMilli(42))
	jobID := models.JobID{7}

	st, stop, err := Fetch(context.Background(), reader, key, clk, jobID)
	require.NoError(t, err)
	defer stop()

	var chunks []Chunk
	for c := range st.Chan() {
		chunks = append(chunks, c)
	}
	require.NoError(t, st.Err())
	require.Len(t, chunks, 3)

	assert.Equal(t, uint64(42), chunks[0].Timestamp)
	assert.Equal(t, key.Address().Hex()+"|"+jobID.Hex(), string(chunks[0].Data))
	assert.Equal(t, "line 1", string(chunks[1].Data))
	assert.Equal(t, "line 2", string(chunks[2].Data))
}

func TestDescriptorRoundTrip(t *testing.T) {
	msg := EncodeReadResponse(Chunk{Timestamp: 9, Data: []byte("x")})
	assert.Equal(t, Chunk{Timestamp: 9, Data: []byte("x")}, DecodeReadResponse(msg))
	assert.Equal(t, "logger.v1alpha1.ReadRequest", string(NewReadRequest().Descriptor().FullName()))
}
