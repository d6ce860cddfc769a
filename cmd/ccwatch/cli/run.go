package cli

import (
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ccwatch/ccwatch/internal/application"
	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/cache_fs"
	"github.com/ccwatch/ccwatch/internal/infrastructure/cctray_http"
	"github.com/ccwatch/ccwatch/internal/infrastructure/config"
	"github.com/ccwatch/ccwatch/internal/infrastructure/creds_fs"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
	"github.com/ccwatch/ccwatch/internal/infrastructure/github_http"
	"github.com/ccwatch/ccwatch/internal/infrastructure/logging"
	"github.com/ccwatch/ccwatch/internal/infrastructure/notify_libnotify"
	"github.com/ccwatch/ccwatch/internal/infrastructure/store_fs"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the polling scheduler",
	Run: func(cmd *cobra.Command, args []string) {
		log := logging.New()
		defer func() { _ = log.Sync() }()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			log.Fatal("config", zap.Error(err))
		}

		creds := creds_fs.New(cfg.Credentials.Path)
		client := feedhttp.NewClient(cfg.HTTP.Timeout)
		readers := map[domain.FeedType]domain.FeedReader{
			domain.FeedTypeCCTray: cctray_http.NewReader(client, creds),
			domain.FeedTypeGitHub: github_http.NewReader(client, creds),
		}

		store := store_fs.New(cfg.Pipelines.Path)
		pipelines, err := store.Load()
		if err != nil {
			log.Fatal("pipeline list", zap.Error(err))
		}
		if len(pipelines) == 0 {
			log.Fatal("no pipelines configured, use 'ccwatch add' first")
		}

		coord := application.NewCoordinator(log, readers)
		coord.SetPipelines(pipelines)

		sched := application.NewScheduler(
			log, coord,
			notify_libnotify.NewSoft(),
			cache_fs.New(cfg.Cache.Path),
			store,
			cfg.Poll.Interval,
			cfg.Poll.PauseFile,
		)
		watchAndReload(store, log, sched)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		log.Info("start",
			zap.String("version", version),
			zap.Int("pipelines", len(pipelines)),
			zap.Duration("every", cfg.Poll.Interval),
			zap.String("cache", cfg.Cache.Path),
			zap.String("pause_file", cfg.Poll.PauseFile),
		)
		sched.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// watchAndReload reloads the pipeline list when the file changes on
// disk, e.g. after 'ccwatch add' in another terminal. Events are
// debounced because editors and the scheduler's own saves produce
// bursts.
func watchAndReload(store *store_fs.Store, log *zap.Logger, sched *application.Scheduler) {
	path := store.Path()
	if path == "" {
		return
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("fsnotify init failed", zap.Error(err))
		return
	}

	go func() {
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		fire := func() {
			pipelines, err := store.Load()
			if err != nil {
				log.Warn("pipeline list reload failed", zap.Error(err))
				return
			}
			sched.UpdatePipelines(pipelines)
		}
		startTimer := func() {
			if timer == nil {
				timer = time.AfterFunc(300*time.Millisecond, fire)
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(300 * time.Millisecond)
		}

		if err := w.Add(dir); err != nil {
			log.Warn("fsnotify add dir failed", zap.String("dir", dir), zap.Error(err))
			return
		}

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					startTimer()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("fsnotify error", zap.Error(err))
			}
		}
	}()
}
