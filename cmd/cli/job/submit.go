package job

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"k8s.io/kubectl/pkg/util/i18n"
	"k8s.io/kubectl/pkg/util/templates"
	"sigs.k8s.io/yaml"

	"github.com/gridlab/gridclient/cmd/util"
	"github.com/gridlab/gridclient/cmd/util/flags"
	"github.com/gridlab/gridclient/pkg/client"
	"github.com/gridlab/gridclient/pkg/lib/validate"
	"github.com/gridlab/gridclient/pkg/models"
)

var (
	submitLong = templates.LongDesc(i18n.T(`
		Upload a batch job document and register the job on the ledger.

		The document is read from FILE, or from stdin when FILE is "-". JSON and YAML
		formats are accepted. The id of the job is printed once the ledger accepted it.
`))

	submitExample = templates.Examples(i18n.T(`
		# Submit a job described in YAML, allowing it to spend up to 500 credits
		gridctl job submit job.yaml --max-cost 500

		# Submit a job read from stdin, pinned to providers labelled os=linux, and follow it
		cat job.json | gridctl job submit - --use os=linux --follow
`))
)

type SubmitOptions struct {
	Name    string
	MaxCost *big.Int
	Uses    []models.Label
	Follow  bool
}

func NewSubmitOptions() *SubmitOptions {
	return &SubmitOptions{
		MaxCost: new(big.Int).Set(client.DefaultMaxAmount),
	}
}

func NewSubmitCmd() *cobra.Command {
	o := NewSubmitOptions()

	submitCmd := &cobra.Command{
		Use:     "submit FILE",
		Short:   "Upload a batch job document and register the job on the ledger",
		Long:    submitLong,
		Example: submitExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submit(cmd, args[0], o)
		},
	}

	submitCmd.Flags().StringVar(&o.Name, "name", o.Name,
		"Name of the job, at most 32 bytes. A random name is used when empty.")
	submitCmd.Flags().Var(flags.AmountFlag(&o.MaxCost), "max-cost",
		"Maximum amount of credits the job may spend.")
	submitCmd.Flags().Var(flags.LabelsFlag(&o.Uses), "use",
		"Provider label the job requires, as key=value. Can be repeated.")
	submitCmd.Flags().BoolVarP(&o.Follow, "follow", "f", o.Follow,
		"Print the status transitions of the job until it terminates.")
	return submitCmd
}

func submit(cmd *cobra.Command, path string, o *SubmitOptions) error {
	job, err := readJobFile(cmd, path)
	if err != nil {
		return err
	}
	name := o.Name
	if name == "" {
		name = randomJobName()
	}

	c, err := util.GetClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	id, err := c.SubmitJob(cmd.Context(), job, name, o.MaxCost, o.Uses)
	if err != nil {
		return err
	}
	cmd.Println(id.Hex())

	if o.Follow {
		return follow(cmd, c, id)
	}
	return nil
}

// readJobFile reads a YAML or JSON batch job document. "-" reads stdin.
func readJobFile(cmd *cobra.Command, path string) (*models.BatchJob, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		if err = validate.IsFile(path, "job document %s is not a file", path); err != nil {
			return nil, err
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job document: %w", err)
	}

	job := new(models.BatchJob)
	if err := yaml.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("invalid job document %s: %w", path, err)
	}
	return job, nil
}

// randomJobName returns a 32 character name, the most a job name can hold.
func randomJobName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
