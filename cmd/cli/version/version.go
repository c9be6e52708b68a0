package version

import (
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
	"github.com/gridlab/gridclient/cmd/util/output"
)

// devVersion is reported when the build did not inject a version.
const devVersion = "devel"

type Versions struct {
	ClientVersion string `json:"clientVersion"`
	GoVersion     string `json:"goVersion"`
	Platform      string `json:"platform"`
	Network       string `json:"network,omitempty"`
	MetaScheduler string `json:"metaScheduler,omitempty"`
}

type VersionOptions struct {
	OutputOpts output.OutputOptions
}

func NewVersionOptions() *VersionOptions {
	return &VersionOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	oV := NewVersionOptions()

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the client version and the network it is configured for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return oV.Run(cmd)
		},
	}
	versionCmd.Flags().AddFlagSet(flags.OutputFormatFlags(&oV.OutputOpts))
	return versionCmd
}

var versionColumns = []output.TableColumn[Versions]{
	{
		ColumnConfig: table.ColumnConfig{Name: "client"},
		Value:        func(v Versions) string { return v.ClientVersion },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "go"},
		Value:        func(v Versions) string { return v.GoVersion },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "platform"},
		Value:        func(v Versions) string { return v.Platform },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "network"},
		Value:        func(v Versions) string { return v.Network },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "meta-scheduler"},
		Value:        func(v Versions) string { return v.MetaScheduler },
	},
}

func (oV *VersionOptions) Run(cmd *cobra.Command) error {
	return output.OutputOne(cmd, versionColumns, oV.OutputOpts, GetVersions(cmd))
}

// GetVersions describes this build and, once the root command resolved it, the configured network.
func GetVersions(cmd *cobra.Command) Versions {
	v := Versions{
		ClientVersion: cmd.Root().Version,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
	}
	if v.ClientVersion == "" {
		v.ClientVersion = devVersion
	}
	if cfg, ok := util.GetConfig(cmd.Context()); ok {
		v.Network = cfg.Network.Name
		v.MetaScheduler = cfg.Network.MetaSchedulerAddress.Hex()
	}
	return v
}
