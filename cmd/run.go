package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/follower-map/internal/mapview"
)

var (
	runName  string
	runToken string
	runOut   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build one follower map and write it to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		token := runToken
		if token == "" {
			token = cfg.Twitter.Token
		}
		out := runOut
		if out == "" {
			out = cfg.Map.OutputPath
		}

		return runMap(ctx, newPipeline(cfg), runName, token, out)
	},
}

// runMap builds the map for screenName and writes it to out.
func runMap(ctx context.Context, b mapBuilder, screenName, token, out string) error {
	if screenName == "" {
		return eris.New("run: --name is required")
	}
	if token == "" {
		return eris.New("run: --token is required (or set twitter.token)")
	}

	m, err := b.Build(ctx, screenName, token)
	if err != nil {
		return eris.Wrap(err, "run: build map")
	}
	if err := mapview.WriteFile(out, m.HTML); err != nil {
		return err
	}

	log := zap.L().With(zap.String("map_id", m.ID), zap.String("screen_name", screenName))
	if m.FetchErr != nil {
		log.Warn("follower fetch failed, wrote empty map", zap.Error(m.FetchErr))
	}
	log.Info("map written",
		zap.String("path", out),
		zap.String("status", string(m.Status)),
		zap.Int("followers", len(m.Followers)),
		zap.Int("markers", len(m.Markers)),
		zap.Int("dropped", m.Dropped()),
	)
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "screen name whose followers to map")
	runCmd.Flags().StringVar(&runToken, "token", "", "bearer token (default from config)")
	runCmd.Flags().StringVar(&runOut, "out", "", "output file (default from config)")
	rootCmd.AddCommand(runCmd)
}
