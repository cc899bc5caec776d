package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/okami-inn/okami/internal/config"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup: write an initial config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnboard(resolveConfigPath())
		},
	}
}

func runOnboard(path string) error {
	cfg := config.Default()

	environment := cfg.Environment
	agentURL := cfg.Agent.BaseURL
	accountsFile := cfg.WeChat.AccountsFile
	larkAppID := cfg.Lark.AppID

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Environment").
				Options(
					huh.NewOption("Development (loopback gateway)", config.EnvDev),
					huh.NewOption("Production", config.EnvProd),
				).
				Value(&environment),
			huh.NewInput().
				Title("Agent platform base URL").
				Value(&agentURL),
			huh.NewInput().
				Title("WeChat accounts file").
				Value(&accountsFile),
			huh.NewInput().
				Title("Lark app id (secret goes in OKAMI_LARK_APP_SECRET)").
				Value(&larkAppID),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("onboard form: %w", err)
	}

	cfg.Environment = environment
	cfg.Agent.BaseURL = agentURL
	cfg.WeChat.AccountsFile = accountsFile
	cfg.Lark.AppID = larkAppID

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Set OKAMI_LARK_APP_SECRET in the environment before starting the monitor.")
	return nil
}
