package cli

import (
	"fmt"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/config"
	"github.com/ccwatch/ccwatch/internal/infrastructure/creds_fs"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
	"github.com/ccwatch/ccwatch/internal/infrastructure/github_http"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to GitHub via the OAuth device flow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		client := feedhttp.NewClient(cfg.HTTP.Timeout)
		flow := github_http.NewDeviceFlow(client, cfg.GitHub.WebBaseURL)

		dc, err := flow.RequestDeviceCode(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Open %s and enter the code: %s\n", dc.VerificationURI, dc.UserCode)
		fmt.Println("Waiting for authorization...")

		token, err := flow.PollForAccessToken(cmd.Context(), dc)
		if err != nil {
			return err
		}

		creds := creds_fs.New(cfg.Credentials.Path)
		if err := creds.Save(github_http.ServiceName, domain.Credential{Secret: token}); err != nil {
			return err
		}

		fmt.Println("Token stored. Review the grant at", flow.ApplicationsURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
