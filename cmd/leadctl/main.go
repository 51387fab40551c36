package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"practice-automation/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Lead classification and follow-up automation CLI",
	Long: `leadctl runs the lead engine over a JSON file of leads.

- classify: show tier, temperature, readiness, priority and due date per lead. No side effects.
- run: create follow-up tasks and notify the team for every ready lead, one lead at a time.
  Use --dry-run to keep tasks in memory and log notifications instead of posting them.

The leads file is either a JSON array of leads or an object {"leads": [...]}.
Every flag can also be set as LEADCTL_<FLAG> (dashes become underscores).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env := "production"
		if viper.GetBool("verbose") {
			env = "local"
		}
		l := logger.NewWriter(os.Stderr, env, viper.GetString("log-format"))
		cmd.SetContext(logger.With(cmd.Context(), l))
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.AddCommand(classifyCmd(), runCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LEADCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("file", "f", "", "leads JSON file (- for stdin)")
	pf.Bool("json", false, "output JSON")
	pf.String("timezone", "UTC", "practice timezone for due dates")
	pf.String("crm-record-url", "", "base URL of CRM contact records")
	pf.Bool("verbose", false, "debug logging")
	pf.String("log-format", "text", "log format: text or json")
	for _, name := range []string{"file", "json", "timezone", "crm-record-url", "verbose", "log-format"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}
