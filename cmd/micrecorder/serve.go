package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/micrecorder/pkg/controlserver"
)

func (a *app) newServeCommand() *cobra.Command {
	var listenAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recording controls over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listenAddr == "" {
				listenAddr = a.config.Server.ListenAddr
			}
			return a.serve(cmd.Context(), listenAddr)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "address to listen at (default: server.listen_addr from the config)")
	return cmd
}

func (a *app) serve(ctx context.Context, listenAddr string) error {
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

	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancelFn()
	return controlserver.New(controller).ListenAndServe(ctx, listenAddr)
}
