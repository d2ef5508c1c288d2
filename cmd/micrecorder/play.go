package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/micrecorder/pkg/audio"
)

func (a *app) newPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play [file]",
		Short: "Play a recording (default: the last one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				dir, err := a.pathResolver().OutputDir(ctx)
				if err != nil {
					return fmt.Errorf("unable to resolve the output directory: %w", err)
				}
				path = filepath.Join(dir, a.config.Output.FileName)
			}
			return play(ctx, path)
		},
	}
}

func play(ctx context.Context, path string) error {
	player := audio.NewPlayerAuto(ctx)
	defer player.Close()
	logger.Infof(ctx, "playing '%s' with %T", path, player.PlayerPCM)
	stream, err := player.PlayWAV(ctx, path)
	if err != nil {
		return err
	}
	defer stream.Close()
	if err := stream.Drain(); err != nil {
		return fmt.Errorf("unable to play '%s' till the end: %w", path, err)
	}
	return nil
}
