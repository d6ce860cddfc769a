package cli

import (
	"fmt"

	"github.com/ccwatch/ccwatch/internal/infrastructure/cctray_http"
	"github.com/ccwatch/ccwatch/internal/infrastructure/config"
	"github.com/ccwatch/ccwatch/internal/infrastructure/creds_fs"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <url>",
	Short: "Probe a server for its CCTray feed and list its projects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		creds := creds_fs.New(cfg.Credentials.Path)
		client := feedhttp.NewClient(cfg.HTTP.Timeout)

		feedURL, projects := cctray_http.NewDiscovery(client, creds).Discover(cmd.Context(), args[0])

		fmt.Printf("feed: %s\n", feedURL)
		for _, p := range projects {
			if p.IsValid {
				fmt.Printf("  %s\n", p.Name)
			} else if p.Message != "" {
				fmt.Printf("  (%s)\n", p.Message)
			} else {
				fmt.Println("  (feed contains no projects)")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
