package client

import (
	"context"

	"github.com/gridlab/gridclient/pkg/lib/stream"
	"github.com/gridlab/gridclient/pkg/logstream"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/gridlab/gridclient/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// FetchLogs streams the output of a job. The stream must be stopped with the returned function.
func (c *Client) FetchLogs(ctx context.Context, id models.JobID) (*stream.Stream[logstream.Chunk], stream.CloseFunc, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/client.FetchLogs", attribute.String(telemetry.AttributeJobID, id.Hex()))
	defer span.End()

	if _, err := c.requireSigner("FetchLogs"); err != nil {
		return nil, nil, telemetry.RecordError(span, err)
	}
	if c.logs == nil {
		return nil, nil, telemetry.RecordError(span, configError("no log service configured"))
	}
	st, stop, err := logstream.Fetch(ctx, c.logs, c.signer, c.clock, id)
	return st, stop, telemetry.RecordError(span, err)
}
