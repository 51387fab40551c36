package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"practice-automation/internal/audit"
	"practice-automation/internal/directory"
	"practice-automation/internal/leads"
	"practice-automation/internal/notify"
	"practice-automation/internal/orchestrator"
	"practice-automation/internal/ratelimit"
	"practice-automation/internal/reporting"
	"practice-automation/internal/taskstore"
	"practice-automation/pkg/logger"
	"practice-automation/pkg/utils"
)

type runResult struct {
	Outcomes []orchestrator.Outcome `json:"outcomes"`
	Summary  reporting.BatchSummary `json:"summary"`
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create follow-up tasks and notify the team for ready leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := readLeads(viper.GetString("file"))
			if err != nil {
				return err
			}

			runner, cleanup, err := buildRunner(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			outcomes := runner.Run(ctx, in)
			res := runResult{Outcomes: outcomes, Summary: reporting.Summarize(outcomes)}
			if viper.GetBool("json") {
				if err := printJSON(res); err != nil {
					return err
				}
			} else {
				renderOutcomes(in, res)
			}
			if !res.Summary.AllSucceeded() {
				return fmt.Errorf("%d leads failed, %d partially", res.Summary.Failed, res.Summary.Partial)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("directory", "", "directory YAML (tier lists, team, channel)")
	f.Bool("dry-run", false, "keep tasks in memory and log notifications")
	f.String("dsn", "", "Postgres DSN for tasks and audit (empty keeps tasks in memory)")
	f.String("webhook-url", "", "chat incoming-webhook URL (empty logs notifications)")
	f.String("task-url-base", "", "base URL for task links")
	f.Duration("interval", ratelimit.DefaultInterval, "pause between consecutive leads")
	for _, name := range []string{"directory", "dry-run", "dsn", "webhook-url", "task-url-base", "interval"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

func buildRunner(ctx context.Context) (*orchestrator.BatchRunner, func(), error) {
	log := logger.From(ctx)
	cleanup := func() {}

	dir, err := directory.Load(viper.GetString("directory"))
	if err != nil {
		return nil, cleanup, err
	}
	b, err := newBuilder(viper.GetString("timezone"), viper.GetString("crm-record-url"))
	if err != nil {
		return nil, cleanup, err
	}

	dryRun := viper.GetBool("dry-run")
	deps := orchestrator.Deps{
		Destinations: dir,
		Team:         dir,
		Channels:     dir,
		Builder:      b,
		Messenger:    notify.LogMessenger{},
	}
	taskURLBase := viper.GetString("task-url-base")

	dsn := viper.GetString("dsn")
	if dsn != "" && !dryRun {
		db, err := utils.OpenPostgres(ctx, "pgx", dsn, utils.PostgresPoolConfig{MaxOpenConns: 2})
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = db.Close() }
		deps.Store = taskstore.NewPostgresStore(db, taskURLBase)
		deps.Audit = orchestrator.AuditAdapter{Audit: audit.NewService(audit.NewPostgresRepo(db))}
	} else {
		deps.Store = taskstore.NewMemoryStore(taskURLBase)
		deps.Audit = orchestrator.AuditAdapter{Audit: audit.NewService(audit.NewMemoryRepo())}
	}

	if url := viper.GetString("webhook-url"); url != "" && !dryRun {
		deps.Messenger = notify.NewWebhookMessenger(url, 0)
	}

	var throttle orchestrator.Throttle
	if !dryRun {
		throttle = ratelimit.NewInterval(viper.GetDuration("interval"))
	}
	log.Debug("runner ready", "dry_run", dryRun, "postgres", dsn != "" && !dryRun, "tiers", len(dir.Tiers))
	return orchestrator.NewBatchRunner(orchestrator.New(deps), throttle), cleanup, nil
}

func renderOutcomes(in []leads.Lead, res runResult) {
	names := make(map[string]string, len(in))
	for _, l := range in {
		names[l.ID] = l.DisplayName()
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Lead", "Name", "State", "Task", "Notified", "Error"})
	for _, o := range res.Outcomes {
		tw.AppendRow(table.Row{o.LeadID, names[o.LeadID], o.State, o.TaskID, yesNo(o.SlackNotified), o.Error})
	}
	s := res.Summary
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d leads", s.Total), fmt.Sprintf("%d not ready", s.NotReady), fmt.Sprintf("%d created", s.TasksCreated), fmt.Sprintf("%d notified", s.Notified), fmt.Sprintf("%d failed", s.Failed+s.Partial)})
	tw.Render()
}
