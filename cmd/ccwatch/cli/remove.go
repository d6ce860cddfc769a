package cli

import (
	"fmt"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/config"
	"github.com/ccwatch/ccwatch/internal/infrastructure/store_fs"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name-or-id>",
	Short: "Remove a pipeline from the monitored list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		store := store_fs.New(cfg.Pipelines.Path)
		pipelines, err := store.Load()
		if err != nil {
			return err
		}

		i := domain.FindByNameOrID(pipelines, args[0])
		if i < 0 {
			return fmt.Errorf("no pipeline named %q", args[0])
		}
		removed := pipelines[i]
		pipelines = append(pipelines[:i], pipelines[i+1:]...)
		if err := store.Save(pipelines); err != nil {
			return err
		}

		fmt.Printf("removed: %s\n", removed.Name)
		return nil
	},
}

func init() {
	removeCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		pipelines, err := store_fs.New(cfg.Pipelines.Path).Load()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		out := make([]string, 0, len(pipelines))
		for _, p := range pipelines {
			if p.Name != "" {
				out = append(out, p.Name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}

	rootCmd.AddCommand(removeCmd)
}
