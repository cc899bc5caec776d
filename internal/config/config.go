// Package config holds the process configuration: environment profile,
// messaging gateway endpoints, Bitable credentials, and the agent
// platform address. The config is resolved once at startup and passed
// by value into constructors; nothing reads ambient environment state
// after that.
package config

import "strings"

// Environment profile names. Anything that is not prod resolves to the
// dev profile.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config is the root configuration for okami.
type Config struct {
	Environment string        `json:"environment"`
	WeChat      WeChatConfig  `json:"wechat"`
	Agent       AgentConfig   `json:"agent"`
	Lark        LarkConfig    `json:"lark"`
	Weather     WeatherConfig `json:"weather"`
}

// WeChatConfig configures the messaging gateway integration.
type WeChatConfig struct {
	// Profiles maps an environment name to the gateway base URL.
	Profiles map[string]string `json:"profiles"`

	// AccountsFile is the per-environment bot account directory.
	AccountsFile string `json:"accounts_file"`

	// PollIntervalSeconds is the pause between polling cycles.
	PollIntervalSeconds int `json:"poll_interval_seconds"`

	// SendRatePerMinute caps outbound gateway sends per account.
	// Zero disables the limiter.
	SendRatePerMinute int `json:"send_rate_per_minute"`
}

// AgentConfig configures the conversational-agent platform client.
type AgentConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// LarkConfig configures the Bitable table service.
type LarkConfig struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"-"` // env only, never persisted
	BaseURL   string `json:"base_url"`
}

// WeatherConfig configures the geocoding and forecast endpoints.
type WeatherConfig struct {
	GeocodeBaseURL  string `json:"geocode_base_url"`
	ForecastBaseURL string `json:"forecast_base_url"`
}

// IsProduction reports whether the prod profile is active.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProd)
}

// GatewayBaseURL resolves the messaging gateway base URL for the active
// environment profile.
func (c *Config) GatewayBaseURL() string {
	if c.IsProduction() {
		return c.WeChat.Profiles[EnvProd]
	}
	return c.WeChat.Profiles[EnvDev]
}

// DirectoryEnvironment is the key used to select accounts from the
// directory file. Non-prod environments all share the dev account set.
func (c *Config) DirectoryEnvironment() string {
	if c.IsProduction() {
		return EnvProd
	}
	return EnvDev
}
