package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"practice-automation/internal/tasks"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Preview classification and task timing for each lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readLeads(viper.GetString("file"))
			if err != nil {
				return err
			}
			b, err := newBuilder(viper.GetString("timezone"), viper.GetString("crm-record-url"))
			if err != nil {
				return err
			}
			out := make([]tasks.Preview, 0, len(in))
			for _, l := range in {
				out = append(out, b.Preview(l))
			}
			if viper.GetBool("json") {
				return printJSON(out)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Lead", "Tier", "Temp", "Ready", "Priority", "Due", "Task"})
			for _, p := range out {
				due := ""
				if p.DueAt != nil {
					due = p.DueAt.In(b.Location).Format("2006-01-02 15:04")
				}
				tw.AppendRow(table.Row{p.LeadID, p.Tier, p.Temperature, yesNo(p.Ready), p.Priority, due, p.TaskName})
			}
			tw.Render()
			return nil
		},
	}
}
