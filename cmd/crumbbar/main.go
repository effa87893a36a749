package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/justyntemme/crumbbar/internal/app"
	"github.com/justyntemme/crumbbar/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "crumbbar [path]",
		Short: "Breadcrumb file browser with drag-and-drop moves",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.StartPath = args[0]
			}
			manageConsole(opts.Debug)
			app.Main(opts)
			return nil
		},
	}
	root.Flags().StringVar(&opts.Root, "root", "", "directory the bar treats as home")
	root.Flags().StringVar(&opts.StartPath, "path", "", "directory to open first")
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default "+config.ConfigPath()+")")
	root.Flags().BoolVar(&opts.Debug, "debug", false, "enable verbose debug logging")

	root.AddCommand(newConfigCmd(&opts))
	return root
}

func newConfigCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config, backing up any existing file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backup, err := config.Generate(opts.ConfigPath)
			if err != nil {
				return err
			}
			path := opts.ConfigPath
			if path == "" {
				path = config.ConfigPath()
			}
			if backup != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "backed up existing config to %s\n", backup)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			path := opts.ConfigPath
			if path == "" {
				path = config.ConfigPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	})
	return cmd
}
