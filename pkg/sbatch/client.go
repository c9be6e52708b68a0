// Package sbatch talks to the batch-submission service, which stores job documents and returns
// the content reference the ledger records for a job.
package sbatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/models"
	"github.com/gridlab/gridclient/pkg/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const component = "BatchService"

// DefaultTimeout bounds a single request, the upload of the document included.
const DefaultTimeout = 60 * time.Second

// maxResponseSize caps the response body read from the service.
const maxResponseSize = 10 << 20

const (
	submitMutation = `mutation Submit($job: Job!) { submit(job: $job) }`
	jobQuery       = `query Job($batchLocationHash: String!) { job(batchLocationHash: $batchLocationHash) }`
)

// Uploader is what the client needs from the batch service.
type Uploader interface {
	Submit(ctx context.Context, job *models.BatchJob) (string, error)
}

type Client struct {
	Endpoint string
	Client   *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		Client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: otelhttp.NewTransport(nil,
				otelhttp.WithSpanOptions(
					trace.WithAttributes(attribute.String("service", "sbatch")),
				),
			),
		},
	}
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Submit uploads the job document and returns its batch location hash.
func (c *Client) Submit(ctx context.Context, job *models.BatchJob) (string, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/sbatch.Client.Submit")
	defer span.End()

	var data struct {
		Submit string `json:"submit"`
	}
	if err := c.do(ctx, "Submit", submitMutation, map[string]interface{}{"job": job}, &data); err != nil {
		return "", telemetry.RecordError(span, err)
	}
	if data.Submit == "" {
		return "", telemetry.RecordError(span, griderrors.New("batch service returned an empty batch location hash").
			WithCode(griderrors.UploadRejected).
			WithComponent(component))
	}
	return data.Submit, nil
}

// Job returns the document stored under batchLocationHash.
func (c *Client) Job(ctx context.Context, batchLocationHash string) (string, error) {
	ctx, span := telemetry.NewSpan(ctx, "pkg/sbatch.Client.Job")
	defer span.End()

	var data struct {
		Job string `json:"job"`
	}
	vars := map[string]interface{}{"batchLocationHash": batchLocationHash}
	if err := c.do(ctx, "Job", jobQuery, vars, &data); err != nil {
		return "", telemetry.RecordError(span, err)
	}
	return data.Job, nil
}

func (c *Client) do(ctx context.Context, operation, query string, vars map[string]interface{}, out interface{}) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(graphQLRequest{Query: query, OperationName: operation, Variables: vars}); err != nil {
		return griderrors.Wrap(err, "failed to encode %s request", operation).
			WithCode(griderrors.ValidationError).
			WithComponent(component)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return griderrors.Wrap(err, "failed to create %s request", operation).
			WithCode(griderrors.ConfigurationError).
			WithComponent(component)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.Client.Do(req)
	if err != nil {
		return networkError(err, "failed to post %s to %s", operation, c.Endpoint)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return networkError(err, "failed to read %s response", operation)
	}

	var gql graphQLResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		if res.StatusCode != http.StatusOK {
			return networkError(fmt.Errorf("status %d: %s", res.StatusCode, truncate(raw)), "%s failed", operation)
		}
		return networkError(errors.Wrap(err, "invalid response body"), "%s failed", operation)
	}
	if len(gql.Errors) > 0 {
		messages := make([]string, 0, len(gql.Errors))
		for _, e := range gql.Errors {
			messages = append(messages, e.Message)
		}
		return griderrors.New("batch service rejected %s: %s", operation, strings.Join(messages, "; ")).
			WithCode(griderrors.UploadRejected).
			WithComponent(component)
	}
	if res.StatusCode != http.StatusOK {
		return networkError(fmt.Errorf("status %d: %s", res.StatusCode, truncate(raw)), "%s failed", operation)
	}
	if err := json.Unmarshal(gql.Data, out); err != nil {
		return networkError(errors.Wrap(err, "invalid data"), "%s failed", operation)
	}
	return nil
}

func networkError(err error, format string, a ...interface{}) error {
	return griderrors.Wrap(err, format, a...).
		WithCode(griderrors.NetworkError).
		WithComponent(component)
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

// compile time check whether the Client implements the Uploader interface
var _ Uploader = (*Client)(nil)
