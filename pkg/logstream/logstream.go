// Package logstream reads the live output of a job from the log service. Access is granted
// per request by a signed challenge binding the account, the job and the request time.
package logstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/lib/stream"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/gridlab/gridclient/pkg/signer"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const component = "LogService"

// ReadTimeout is the longest a single log stream stays open.
const ReadTimeout = time.Hour

// Chunk is a piece of job output as stored by the log service.
type Chunk struct {
	Timestamp uint64
	Data      []byte
}

type ReadRequest struct {
	Address common.Address
	LogName string
	// Timestamp is the challenge time in milliseconds since the epoch.
	Timestamp  uint64
	SignedHash []byte
}

// Receiver yields the chunks of an open read, and io.EOF once the service ends it.
type Receiver interface {
	Recv() (Chunk, error)
}

// Reader opens a server-streaming read. The read is bound to ctx.
type Reader interface {
	Read(ctx context.Context, req ReadRequest) (Receiver, error)
}

// Challenge is the message signed to prove read access to the logs of jobID.
func Challenge(address common.Address, jobID models.JobID, timestampMs int64) string {
	return fmt.Sprintf("read:%s/%s/%d", strings.ToLower(address.Hex()), jobID.Hex(), timestampMs)
}

// Fetch signs a fresh challenge and opens the log stream of jobID. The stream ends normally
// when the service closes it or when it is cancelled, and with a StreamFailed error otherwise.
func Fetch(
	ctx context.Context, reader Reader, s signer.Signer, clk clock.Clock, jobID models.JobID,
) (*stream.Stream[Chunk], stream.CloseFunc, error) {
	if s == nil {
		return nil, nil, griderrors.NewReadOnlyError("FetchLogs")
	}

	timestamp := clk.Now().UnixMilli()
	address := s.Address()
	signature, err := s.SignMessage(ctx, []byte(Challenge(address, jobID, timestamp)))
	if err != nil {
		return nil, nil, griderrors.Wrap(err, "failed to sign log read challenge").
			WithCode(griderrors.ConfigurationError).
			WithComponent(component)
	}

	req := ReadRequest{
		Address:    address,
		LogName:    jobID.Hex(),
		Timestamp:  uint64(timestamp),
		SignedHash: signature,
	}

	return stream.Bridge(func(sink stream.Sink[Chunk]) (stream.Unsubscribe, error) {
		readCtx, cancel := context.WithTimeout(ctx, ReadTimeout)
		receiver, err := reader.Read(readCtx, req)
		if err != nil {
			cancel()
			return nil, griderrors.Wrap(err, "failed to open log stream of job %s", jobID).
				WithCode(griderrors.NetworkError).
				WithComponent(component)
		}

		go func() {
			defer cancel()
			for {
				chunk, err := receiver.Recv()
				if err != nil {
					sink.Finish(finishReason(readCtx, jobID, err))
					return
				}
				sink.Push(chunk)
			}
		}()
		return stream.Unsubscribe(cancel), nil
	})
}

func finishReason(ctx context.Context, jobID models.JobID, err error) error {
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case isCancellation(err):
		log.Ctx(ctx).Debug().Str("JobID", jobID.Hex()).Msg("log stream cancelled")
		return nil
	default:
		return griderrors.Wrap(err, "log stream of job %s failed", jobID).
			WithCode(griderrors.StreamFailed).
			WithComponent(component)
	}
}

func isCancellation(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	if st, ok := status.FromError(err); ok {
		return st.Code() == codes.Canceled
	}
	return false
}
