package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xaionaro-go/micrecorder/pkg/config"
	"gopkg.in/yaml.v3"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:         "init [path]",
			Short:       "Write the default configuration (default path: the user config directory)",
			Args:        cobra.MaximumNArgs(1),
			Annotations: map[string]string{annotationNoConfig: "true"},
			RunE: func(cmd *cobra.Command, args []string) error {
				path := a.flags.ConfigFile
				if len(args) == 1 {
					path = args[0]
				}
				if path == "" {
					var err error
					path, err = config.DefaultPath()
					if err != nil {
						return err
					}
				}
				if err := config.WriteFile(path, config.Default()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := yaml.Marshal(a.config)
				if err != nil {
					return fmt.Errorf("unable to serialize the config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			},
		},
	)
	return cmd
}
