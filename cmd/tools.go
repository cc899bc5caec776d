package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okami-inn/okami/internal/config"
	"github.com/okami-inn/okami/internal/lark"
	"github.com/okami-inn/okami/internal/tools"
	"github.com/okami-inn/okami/internal/weather"
)

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and run the hotel tool set",
	}
	cmd.AddCommand(toolsListCmd())
	cmd.AddCommand(toolsRunCmd())
	return cmd
}

func buildRegistry(cfg *config.Config) *tools.Registry {
	tables := lark.NewClient(cfg.Lark.AppID, cfg.Lark.AppSecret, cfg.Lark.BaseURL)
	forecasts := weather.NewService(cfg.Weather.GeocodeBaseURL, cfg.Weather.ForecastBaseURL)
	return tools.HotelRegistry(tables, forecasts, os.Getenv("OKAMI_REPORT_FONT"))
}

func toolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return err
			}
			for _, tool := range buildRegistry(cfg).List() {
				fmt.Printf("%-45s %s\n", tool.Name(), tool.Description())
			}
			return nil
		},
	}
}

func toolsRunCmd() *cobra.Command {
	var argsJSON string
	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Run one tool with JSON arguments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return err
			}

			toolArgs := map[string]any{}
			if argsJSON != "" {
				if err := json.Unmarshal([]byte(argsJSON), &toolArgs); err != nil {
					return fmt.Errorf("parse --args: %w", err)
				}
			}

			result := buildRegistry(cfg).Execute(context.Background(), args[0], toolArgs)
			if result.IsError {
				return fmt.Errorf("%s", result.ForLLM)
			}
			fmt.Println(result.ForLLM)
			return nil
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "", "tool arguments as a JSON object")
	return cmd
}
