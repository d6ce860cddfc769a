package cli

import (
	"fmt"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/cctray_http"
	"github.com/ccwatch/ccwatch/internal/infrastructure/config"
	"github.com/ccwatch/ccwatch/internal/infrastructure/creds_fs"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
	"github.com/ccwatch/ccwatch/internal/infrastructure/github_http"
	"github.com/ccwatch/ccwatch/internal/infrastructure/store_fs"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	addProject string
	addName    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pipeline to the monitored list",
}

var addCCTrayCmd = &cobra.Command{
	Use:   "cctray <url>",
	Short: "Add a project from a CCTray feed, discovering the endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		creds := creds_fs.New(cfg.Credentials.Path)
		client := feedhttp.NewClient(cfg.HTTP.Timeout)

		discovery := cctray_http.NewDiscovery(client, creds)
		feedURL, projects := discovery.Discover(cmd.Context(), args[0])

		if len(projects) == 0 || !projects[0].IsValid {
			msg := "the feed contains no projects"
			if len(projects) > 0 && projects[0].Message != "" {
				msg = projects[0].Message
			}
			return fmt.Errorf("cannot add pipeline from %s: %s", feedURL, msg)
		}

		if addProject == "" {
			fmt.Printf("feed: %s\nprojects:\n", feedURL)
			for _, p := range projects {
				fmt.Printf("  %s\n", p.Name)
			}
			fmt.Println("re-run with --project to add one of them")
			return nil
		}

		found := false
		for _, p := range projects {
			if p.Name == addProject {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("project %q not found in feed %s", addProject, feedURL)
		}

		name := addName
		if name == "" {
			name = addProject
		}
		return appendPipeline(cfg, domain.Pipeline{
			ID:   uuid.NewString(),
			Name: name,
			Feed: domain.Feed{Type: domain.FeedTypeCCTray, URL: feedURL, Project: addProject},
		})
	},
}

var addGitHubCmd = &cobra.Command{
	Use:   "github <owner> <repo> <workflow-file>",
	Short: "Add a GitHub Actions workflow",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		owner, repo, workflow := args[0], args[1], args[2]

		name := addName
		if name == "" {
			name = fmt.Sprintf("%s/%s | %s", owner, repo, workflow)
		}
		return appendPipeline(cfg, domain.Pipeline{
			ID:   uuid.NewString(),
			Name: name,
			Feed: domain.Feed{
				Type: domain.FeedTypeGitHub,
				URL:  github_http.FeedURL(cfg.GitHub.APIBaseURL, owner, repo, workflow),
			},
		})
	},
}

func appendPipeline(cfg config.Config, p domain.Pipeline) error {
	store := store_fs.New(cfg.Pipelines.Path)
	pipelines, err := store.Load()
	if err != nil {
		return err
	}
	for _, existing := range pipelines {
		if existing.Feed.Equal(p.Feed) {
			return fmt.Errorf("pipeline %q already monitors this feed", existing.Name)
		}
	}
	pipelines = append(pipelines, p)
	if err := store.Save(pipelines); err != nil {
		return err
	}
	fmt.Printf("added: %s\n", p.Name)
	return nil
}

func init() {
	addCCTrayCmd.Flags().StringVar(&addProject, "project", "", "project name within the feed")
	addCCTrayCmd.Flags().StringVar(&addName, "name", "", "display name (defaults to the project)")
	addGitHubCmd.Flags().StringVar(&addName, "name", "", "display name (defaults to owner/repo | workflow)")

	addCmd.AddCommand(addCCTrayCmd)
	addCmd.AddCommand(addGitHubCmd)
	rootCmd.AddCommand(addCmd)
}
