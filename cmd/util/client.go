package util

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridlab/gridclient/pkg/client"
	"github.com/gridlab/gridclient/pkg/models"
)

// GetClient dials the grid with the configuration resolved for cmd. The caller closes the client.
func GetClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, ok := GetConfig(cmd.Context())
	if !ok {
		return nil, fmt.Errorf("configuration was not loaded for %q", cmd.CommandPath())
	}
	return client.Dial(cmd.Context(), cfg)
}

// ParseJobIDArg parses a job id given on the command line.
func ParseJobIDArg(arg string) (models.JobID, error) {
	id, err := models.ParseJobID(arg)
	if err != nil {
		return models.JobID{}, fmt.Errorf("invalid job id %q: %w", arg, err)
	}
	return id, nil
}
