package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docstacker/docsign/client/api"
	"github.com/docstacker/docsign/client/config"
	"github.com/docstacker/docsign/client/services"
)

func init() {
	config.SetFlags(rootCmd.PersistentFlags())
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts the docsign daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to read configuration: %w", err)
			}

			if err = services.InitServices(conf); err != nil {
				return err
			}
			sp := services.App()
			defer func() {
				if err := sp.Close(); err != nil {
					sp.Logger().Error("failed to close services: %v", err)
				}
			}()

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			sp.Logger().Log("REST API is listening on %s", conf.ListenAddr)
			if err = api.Run(ctx, conf, sp); err != nil {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			sp.Logger().Log("received signal, daemon stopped")
			return nil
		},
	}
}

func printConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print_config",
		Short: "prints the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to read configuration: %w", err)
			}
			return printConfig(cmd.OutOrStdout(), conf)
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "docsign_d",
	Short: "document signing daemon",
}

func main() {
	rootCmd.AddCommand(
		startCommand(),
		printConfigCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Failed to execute root command: %v", err)
		os.Exit(1)
	}
}
