package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ccwatch/ccwatch/internal/infrastructure/config"
	"github.com/ccwatch/ccwatch/internal/infrastructure/creds_fs"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
	"github.com/ccwatch/ccwatch/internal/infrastructure/github_http"
	"github.com/spf13/cobra"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows <owner> <repo>",
	Short: "List GitHub Actions workflows of a repository",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		var token string
		if c, ok := creds_fs.New(cfg.Credentials.Path).Credential(github_http.ServiceName); ok {
			token = c.Secret
		}
		client := feedhttp.NewClient(cfg.HTTP.Timeout)

		workflows, err := github_http.ListWorkflows(cmd.Context(), client, cfg.GitHub.APIBaseURL, args[0], args[1], token)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tPATH\tSTATE")
		for _, wf := range workflows {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", wf.Name, wf.Path, wf.State)
		}
		_ = w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workflowsCmd)
}
