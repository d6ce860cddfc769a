package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ccwatch/ccwatch/internal/infrastructure/config"
	"github.com/ccwatch/ccwatch/internal/infrastructure/store_fs"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitored pipelines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		pipelines, err := store_fs.New(cfg.Pipelines.Path).Load()
		if err != nil {
			return err
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pipelines)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tTYPE\tACTIVITY\tLAST\tERROR")
		for _, p := range pipelines {
			last := "-"
			if lb := p.Status.LastBuild; lb != nil {
				last = string(lb.Result)
				if lb.Label != "" {
					last += " (" + lb.Label + ")"
				}
			}
			activity := string(p.Status.Activity)
			if activity == "" {
				activity = "-"
			}
			errText := p.ConnectionError
			if errText == "" {
				errText = "-"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Feed.Type, activity, last, errText)
		}
		_ = w.Flush()
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
	rootCmd.AddCommand(listCmd)
}
