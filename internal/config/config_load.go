package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/titanous/json5"
)

// Default returns a Config with sensible defaults. The gateway profiles
// mirror the deployment layout: the gateway sidecar is reachable by
// service name in prod and on loopback everywhere else.
func Default() *Config {
	return &Config{
		Environment: EnvDev,
		WeChat: WeChatConfig{
			Profiles: map[string]string{
				EnvDev:  "http://127.0.0.1:8011",
				EnvProd: "http://wechat-agent-service:8011",
			},
			AccountsFile:        "configs/wechat_accounts.json",
			PollIntervalSeconds: 5,
			SendRatePerMinute:   30,
		},
		Agent: AgentConfig{
			BaseURL:        "http://127.0.0.1:8283",
			TimeoutSeconds: 60,
		},
		Lark: LarkConfig{
			BaseURL: "https://open.feishu.cn",
		},
		Weather: WeatherConfig{
			GeocodeBaseURL:  "https://nominatim.openstreetmap.org",
			ForecastBaseURL: "https://api.open-meteo.com",
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars.
// A missing file is not an error: defaults plus env apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config.
// Env vars take precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envStr("OKAMI_ENVIRONMENT", &c.Environment)
	envStr("ENVIRONMENT", &c.Environment)
	envStr("OKAMI_WECHAT_ACCOUNTS_FILE", &c.WeChat.AccountsFile)
	envStr("OKAMI_AGENT_BASE_URL", &c.Agent.BaseURL)
	envStr("OKAMI_LARK_APP_ID", &c.Lark.AppID)
	envStr("LARK_APP_ID", &c.Lark.AppID)
	envStr("OKAMI_LARK_APP_SECRET", &c.Lark.AppSecret)
	envStr("LARK_APP_SECRET", &c.Lark.AppSecret)

	if v := os.Getenv("OKAMI_POLL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.WeChat.PollIntervalSeconds = n
		}
	}
}
