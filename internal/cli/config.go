package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlideStack/internal/model"
	"github.com/piwi3910/SlideStack/internal/project"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the deck configuration file",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := project.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigInit(cmd.Context(), cmd.OutOrStdout(), path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func runConfigInit(ctx context.Context, out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	}
	if err := project.SaveConfig(path, model.DefaultDeckConfig()); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	loggerFromContext(ctx).Debug("wrote default config", "path", path)

	printSuccess(out, "Config written")
	printFile(out, path)
	return nil
}

func newConfigShowCmd() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), config)
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "config file (default: ~/.slidestack/config.toml)")
	return cmd
}

// runConfigShow writes the TOML to out and the status line to status.
func runConfigShow(ctx context.Context, out, status io.Writer, path string) error {
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := loadDeckConfig(ctx, path)
	if err != nil {
		return err
	}
	data, err := project.EncodeConfig(cfg)
	if err != nil {
		return err
	}

	printInfo(status, "Effective config (%s)", path)
	_, err = out.Write(data)
	return err
}
