//go:build unit || !integration

package version

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/pkg/config/types"
)

func TestVersionJSON(t *testing.T) {
	root := &cobra.Command{Use: "gridctl", Version: "v1.2.3"}
	cmd := NewCmd()
	root.AddCommand(cmd)

	var cfg types.ClientConfig
	cfg.Network.Name = "testnet"
	cfg.Network.MetaSchedulerAddress = common.HexToAddress("0x01")

	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"version", "--output", "json"})
	require.NoError(t, root.ExecuteContext(util.ContextWithConfig(context.Background(), cfg)))

	var v Versions
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	require.Equal(t, "v1.2.3", v.ClientVersion)
	require.Equal(t, "testnet", v.Network)
	require.Equal(t, common.HexToAddress("0x01").Hex(), v.MetaScheduler)
}

func TestVersionWithoutBuildVersion(t *testing.T) {
	root := &cobra.Command{Use: "gridctl"}
	cmd := NewCmd()
	root.AddCommand(cmd)
	cmd.SetContext(context.Background())

	v := GetVersions(cmd)
	require.Equal(t, devVersion, v.ClientVersion)
	require.Empty(t, v.Network)
}
