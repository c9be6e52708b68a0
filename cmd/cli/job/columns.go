package job

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gridlab/gridclient/cmd/util/output"
	"github.com/gridlab/gridclient/pkg/models"
)

var jobColumns = []output.TableColumn[models.JobSummary]{
	{
		ColumnConfig: table.ColumnConfig{Name: "ID", WidthMax: 18, WidthMaxEnforcer: text.Trim},
		Value:        func(j models.JobSummary) string { return j.ID.Hex() },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "NAME"},
		Value:        func(j models.JobSummary) string { return j.Name },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "STATUS"},
		Value:        func(j models.JobSummary) string { return j.Status.String() },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "PROVIDER", WidthMax: 12, WidthMaxEnforcer: text.Trim},
		Value: func(j models.JobSummary) string {
			if !j.IsClaimed() {
				return ""
			}
			return j.ProviderAddr.Hex()
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "MAX COST", Align: text.AlignRight},
		Value:        func(j models.JobSummary) string { return bigString(j.Cost.MaxCost) },
	},
}
