package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/observability"
)

const progressInterval = time.Second

func (a *app) newRecordCommand() *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record until interrupted or until the duration elapses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.record(cmd.Context(), cmd.OutOrStdout(), duration)
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this duration (0 means until SIGINT/SIGTERM)")
	return cmd
}

func (a *app) record(
	ctx context.Context,
	out io.Writer,
	duration time.Duration,
) error {
	host, err := a.newHost(ctx)
	if err != nil {
		return err
	}
	controller := a.newController(host)
	defer func() {
		if err := releaseRecording(context.WithoutCancel(ctx), controller, host); err != nil {
			logger.Errorf(ctx, "%v", err)
		}
	}()

	path, err := controller.Start(ctx)
	if err != nil {
		return fmt.Errorf("unable to start the recording: %w", err)
	}
	logger.Infof(ctx, "recording to '%s'", path)

	waitCtx, cancelFn := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelFn()
	if duration > 0 {
		var timeoutCancelFn context.CancelFunc
		waitCtx, timeoutCancelFn = context.WithTimeout(waitCtx, duration)
		defer timeoutCancelFn()
	}

	observability.Go(waitCtx, func() {
		t := time.NewTicker(progressInterval)
		defer t.Stop()
		for {
			select {
			case <-waitCtx.Done():
				return
			case <-t.C:
				logger.Infof(waitCtx, "captured %d bytes", controller.CapturedBytes())
			}
		}
	})
	<-waitCtx.Done()

	path, err = controller.Stop(ctx)
	if err != nil {
		return fmt.Errorf("unable to stop the recording: %w", err)
	}
	fmt.Fprintln(out, path)
	return nil
}
