package trader

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/support/store"
	"github.com/lightyeario/tradingbots/support/utils"
)

const oxrAppIDEnv = "OXR_APP_ID"

// BotConfig represents the configuration params for the bot
type BotConfig struct {
	Exchange            string `toml:"EXCHANGE"`
	BaseURL             string `toml:"BASE_URL"`
	TickIntervalSeconds int32  `toml:"TICK_INTERVAL_SECONDS"`
	DryRun              bool   `toml:"DRY_RUN"`
	AlertType           string `toml:"ALERT_TYPE"`
	AlertAPIKey         string `toml:"ALERT_API_KEY"`
	LogLevel            string `toml:"LOG_LEVEL"`
	LogFile             string `toml:"LOG_FILE"`
	// currency -> address -> name of the withdrawal key registered on the exchange
	WithdrawKeys map[string]map[string]string `toml:"WITHDRAW_KEYS"`
	Store        store.Config                 `toml:"STORE"`

	// read from the environment, never from the file
	apiKey   *api.ExchangeAPIKey
	oxrAppID string
}

// String impl.
func (b BotConfig) String() string {
	return utils.StructString(b, 0, map[string]func(interface{}) interface{}{
		"ALERT_API_KEY": utils.Hide,
		"PASSWORD":      utils.Hide,
	})
}

// APIKey returns the exchange credentials found in the environment, which may be incomplete
func (b *BotConfig) APIKey() *api.ExchangeAPIKey {
	return b.apiKey
}

// OxrAppID returns the OpenExchangeRates app id found in the environment
func (b *BotConfig) OxrAppID() string {
	return b.oxrAppID
}

// ReadBotConfig decodes the TOML file at path, unknown keys are rejected
func ReadBotConfig(path string) (*BotConfig, error) {
	var cfg BotConfig
	md, e := toml.DecodeFile(path, &cfg)
	if e != nil {
		return nil, fmt.Errorf("could not read bot config file '%s': %s", path, e)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("invalid keys in bot config file '%s': %v", path, undecoded)
	}
	if e := cfg.Init(); e != nil {
		return nil, e
	}
	return &cfg, nil
}

// Init validates this config
func (b *BotConfig) Init() error {
	if b.Exchange == "" {
		return fmt.Errorf("EXCHANGE is required")
	}
	if b.TickIntervalSeconds <= 0 {
		return fmt.Errorf("TICK_INTERVAL_SECONDS needs to be positive, was %d", b.TickIntervalSeconds)
	}
	return nil
}

// LoadCredentials reads the exchange credentials from the environment after loading the optional env file.
// Variables already set in the environment win over the file
func (b *BotConfig) LoadCredentials(envPath string) error {
	if envPath != "" {
		if e := godotenv.Load(envPath); e != nil && !os.IsNotExist(e) {
			return fmt.Errorf("could not load env file '%s': %s", envPath, e)
		}
	}

	prefix := strings.ToUpper(b.Exchange)
	b.apiKey = &api.ExchangeAPIKey{
		Key:    os.Getenv(prefix + "_API_KEY"),
		Secret: os.Getenv(prefix + "_API_SECRET"),
	}
	b.oxrAppID = os.Getenv(oxrAppIDEnv)
	return nil
}
