package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"user-directory-api/cmd/api/app"
	"user-directory-api/cmd/api/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "user-directory-api",
		Short:         "Read-only HTTP and gRPC API over the users table",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := server.WithSignal(cmd.Context())
			defer stop()

			a, err := app.New(configPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "startup failed: %v\n", err)
				return err
			}

			if err := a.Run(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "application exited with error: %v\n", err)
				return err
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Directory containing app.env")
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
