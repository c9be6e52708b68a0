package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridlab/gridclient/cmd/cli/credits"
	configcmd "github.com/gridlab/gridclient/cmd/cli/config"
	"github.com/gridlab/gridclient/cmd/cli/job"
	"github.com/gridlab/gridclient/cmd/cli/version"
	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
	"github.com/gridlab/gridclient/pkg/config"
	"github.com/gridlab/gridclient/pkg/config/types"
	"github.com/gridlab/gridclient/pkg/logger"
	"github.com/gridlab/gridclient/pkg/telemetry"
)

const defaultConfigFile = "gridctl.yaml"

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

type rootOptions struct {
	ConfigFile  string
	Environment string
	EnvFile     string
}

func NewRootCmd() *cobra.Command {
	opts := rootOptions{
		ConfigFile:  defaultConfigFile,
		Environment: config.DefaultEnvironment,
		EnvFile:     ".env",
	}

	rootCmd := &cobra.Command{
		Use:           "gridctl",
		Short:         "Submit and follow jobs on the compute grid",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return preRun(cmd, opts)
		},
		PersistentPostRunE: postRun,
	}

	rootCmd.AddCommand(job.NewCmd())
	rootCmd.AddCommand(credits.NewCmd())
	rootCmd.AddCommand(configcmd.NewCmd())
	rootCmd.AddCommand(version.NewCmd())

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&opts.ConfigFile, "config", opts.ConfigFile,
		"Path of the configuration file. A missing file leaves the environment defaults in place.")
	pflags.StringVar(&opts.Environment, "env", opts.Environment,
		`Network whose defaults are used ("testnet" or "development").`)
	pflags.StringVar(&opts.EnvFile, "env-file", opts.EnvFile,
		"Dotenv file loaded into the process environment before the configuration is resolved.")
	pflags.String("private-key", "",
		fmt.Sprintf("Hex private key of the account. Prefer the %s environment variable.", config.KeyAsEnvVar(types.PrivateKey)))
	pflags.String("rpc-url", "", "Override the JSON-RPC endpoint of the ledger.")
	pflags.String("ws-url", "", "Override the websocket endpoint of the ledger.")
	pflags.Var(flags.LoggingFlag(&util.LoggingMode), "log-mode",
		`Log format: 'default','json','combined'`)
	return rootCmd
}

func preRun(cmd *cobra.Command, opts rootOptions) error {
	ctx := cmd.Context()

	if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", opts.EnvFile, err)
	}
	logger.ConfigureLogging(util.LoggingMode)

	cfg, err := config.Load(
		config.WithEnvironment(opts.Environment),
		config.WithConfigFile(opts.ConfigFile),
		config.WithFlag(types.PrivateKey, cmd.Flags().Lookup("private-key")),
		config.WithFlag(types.NetworkRPCURL, cmd.Flags().Lookup("rpc-url")),
		config.WithFlag(types.NetworkWSURL, cmd.Flags().Lookup("ws-url")),
	)
	if err != nil {
		return err
	}
	ctx = util.ContextWithConfig(ctx, cfg)
	ctx = telemetry.ContextWithNetwork(ctx, cfg.Network.Name)

	shutdown, err := telemetry.Setup(ctx, telemetry.TraceConfig{
		Endpoint: cfg.Trace.Endpoint,
		Insecure: cfg.Trace.Insecure,
	})
	if err != nil {
		return err
	}
	ctx = context.WithValue(ctx, shutdownKey, shutdown)

	var names []string
	for root := cmd; root.HasParent(); root = root.Parent() {
		names = append([]string{root.Name()}, names...)
	}
	ctx, span := telemetry.NewSpan(ctx, "gridctl."+strings.Join(names, "."))
	ctx = context.WithValue(ctx, spanKey, span)

	cmd.SetContext(ctx)
	return nil
}

func postRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if span, ok := ctx.Value(spanKey).(trace.Span); ok {
		span.End()
	}
	if shutdown, ok := ctx.Value(shutdownKey).(func(context.Context) error); ok {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("failed to flush traces")
		}
	}
	return nil
}

func Execute(version string) {
	rootCmd := NewRootCmd()
	rootCmd.Version = version

	// Ensure commands are able to stop cleanly if someone presses ctrl+c
	ctx, cancel := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer cancel()

	// Use stdout, not stderr for cmd.Print output, so that
	// e.g. ID=$(gridctl job submit job.yaml) works
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		util.Fatal(rootCmd, err, 1)
	}
}

type contextKey struct {
	name string
}

var (
	spanKey     = contextKey{name: "context key for storing the root span"}
	shutdownKey = contextKey{name: "context key for storing the trace provider shutdown"}
)
