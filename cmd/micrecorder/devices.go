package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xaionaro-go/micrecorder/pkg/audio/backends/synthetic"
	"github.com/xaionaro-go/micrecorder/pkg/audio/registry"
)

func (a *app) newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "Show the default input device of every audio backend and the playback backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceCfg, err := a.config.Synthetic.DeviceConfig()
			if err != nil {
				return err
			}
			synthetic.Configure(deviceCfg)
			return listDevices(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func listDevices(ctx context.Context, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tDEVICE\tCONFIG\tERROR")
	for _, name := range registry.HostBackendNames() {
		device, cfg, err := describeBackend(ctx, name)
		errStr := ""
		if err != nil {
			errStr = err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, device, cfg, errStr)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\nplayback backends: %s\n", strings.Join(registry.PlayerBackendNames(), ", "))
	return err
}

func describeBackend(ctx context.Context, name string) (_device string, _cfg string, _err error) {
	factory, ok := registry.HostFactoryByName(name)
	if !ok {
		return "", "", fmt.Errorf("unknown backend")
	}
	host, err := factory.NewHost()
	if err != nil {
		return "", "", err
	}
	defer host.Close()

	device, err := host.DefaultInputDevice(ctx)
	if err != nil {
		return "", "", err
	}
	cfg, err := device.DefaultInputConfig(ctx)
	if err != nil {
		return device.Name(), "", err
	}
	return device.Name(), cfg.String(), nil
}
