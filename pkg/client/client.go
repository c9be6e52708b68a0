// Package client is the entry point to the grid: it submits jobs, manages credits, reads job
// state and streams ledger events and job logs.
package client

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gridlab/gridclient/pkg/config/types"
	"github.com/gridlab/gridclient/pkg/griderrors"
	"github.com/gridlab/gridclient/pkg/ledger"
	"github.com/gridlab/gridclient/pkg/lib/concurrency"
	"github.com/gridlab/gridclient/pkg/logstream"
	"github.com/gridlab/gridclient/pkg/sbatch"
	"github.com/gridlab/gridclient/pkg/signer"
	"github.com/gridlab/gridclient/pkg/telemetry"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/metric"
)

const component = "Client"

type Params struct {
	Ledger   ledger.Ledger
	Uploader sbatch.Uploader
	// LogReader is optional. Without it FetchLogs fails with a ConfigurationError.
	LogReader logstream.Reader
	// Signer is optional. Without it the client is read-only.
	Signer        signer.Signer
	MetaScheduler common.Address
	Clock         clock.Clock
	// SubmitObserver, when set, is called on every state change of a submission.
	SubmitObserver func(SubmitState)
	// Meter defaults to the meter of the global provider.
	Meter metric.Meter
}

type Client struct {
	ledger         ledger.Ledger
	uploader       sbatch.Uploader
	logs           logstream.Reader
	signer         signer.Signer
	metaScheduler  common.Address
	clock          clock.Clock
	locks          *concurrency.KeyedMutex
	submitObserver func(SubmitState)
	metrics        *clientMetrics
	closers        []func() error

	addrMu    sync.Mutex
	addresses map[string]common.Address
}

func New(params Params) (*Client, error) {
	if params.Ledger == nil {
		return nil, configError("a ledger is required")
	}
	if params.Uploader == nil {
		return nil, configError("a batch service client is required")
	}
	if params.MetaScheduler == (common.Address{}) {
		return nil, configError("the meta-scheduler address is required")
	}
	if params.Clock == nil {
		params.Clock = clock.New()
	}
	if params.Meter == nil {
		params.Meter = telemetry.GetMeter()
	}
	metrics, err := newClientMetrics(params.Meter)
	if err != nil {
		return nil, griderrors.Wrap(err, "failed to create client metrics").
			WithCode(griderrors.ConfigurationError).
			WithComponent(component)
	}
	return &Client{
		ledger:         params.Ledger,
		uploader:       params.Uploader,
		logs:           params.LogReader,
		signer:         params.Signer,
		metaScheduler:  params.MetaScheduler,
		clock:          params.Clock,
		locks:          concurrency.NewKeyedMutex("client"),
		submitObserver: params.SubmitObserver,
		metrics:        metrics,
		addresses:      make(map[string]common.Address),
	}, nil
}

// Dial connects every collaborator described by cfg. The client is read-only unless cfg holds
// a private key.
func Dial(ctx context.Context, cfg types.ClientConfig) (*Client, error) {
	ctx = telemetry.ContextWithNetwork(ctx, cfg.Network.Name)

	var s signer.Signer
	if cfg.PrivateKey != "" {
		pk, err := signer.FromHex(cfg.PrivateKey)
		if err != nil {
			return nil, griderrors.Wrap(err, "invalid private key").
				WithCode(griderrors.ConfigurationError).
				WithComponent(component)
		}
		s = pk
	}

	params := ledger.EthereumParams{RPCURL: cfg.Network.RPCURL, WSURL: cfg.Network.WSURL, Signer: s}
	if cfg.Network.ChainID != 0 {
		params.ChainID = bigInt(cfg.Network.ChainID)
	}
	eth, err := ledger.DialEthereum(ctx, params)
	if err != nil {
		return nil, err
	}

	uploader := sbatch.NewClient(cfg.Sbatch.Endpoint)
	if cfg.Sbatch.Timeout > 0 {
		uploader.Client.Timeout = cfg.Sbatch.Timeout.AsTimeDuration()
	}

	logs, err := logstream.DialGRPC(cfg.Logger.Endpoint, cfg.Logger.TLS)
	if err != nil {
		eth.Close()
		return nil, griderrors.Wrap(err, "failed to set up log service client").
			WithCode(griderrors.ConfigurationError).
			WithComponent(component)
	}

	c, err := New(Params{
		Ledger:        eth,
		Uploader:      uploader,
		LogReader:     logs,
		Signer:        s,
		MetaScheduler: cfg.Network.MetaSchedulerAddress,
	})
	if err != nil {
		eth.Close()
		_ = logs.Close()
		return nil, err
	}
	c.closers = append(c.closers, func() error { eth.Close(); return nil }, logs.Close)

	log.Ctx(ctx).Debug().
		Str("Network", cfg.Network.Name).
		Bool("ReadOnly", s == nil).
		Msg("client connected")
	return c, nil
}

// Close releases the connections opened by Dial.
func (c *Client) Close() error {
	var errs *multierror.Error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	c.closers = nil
	return errs.ErrorOrNil()
}

// Account returns the address the client acts as, and false for a read-only client.
func (c *Client) Account() (common.Address, bool) {
	if c.signer == nil {
		return common.Address{}, false
	}
	return c.signer.Address(), true
}

func (c *Client) MetaSchedulerAddress() common.Address {
	return c.metaScheduler
}

func (c *Client) requireSigner(operation string) (common.Address, error) {
	if c.signer == nil {
		return common.Address{}, griderrors.NewReadOnlyError(operation).WithComponent(component)
	}
	return c.signer.Address(), nil
}

// validationError tags the error of a failed argument check.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return griderrors.Wrap(err, "").
		WithCode(griderrors.ValidationError).
		WithComponent(component)
}

func configError(format string, a ...interface{}) error {
	return griderrors.New(format, a...).
		WithCode(griderrors.ConfigurationError).
		WithComponent(component)
}
