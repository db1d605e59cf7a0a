package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	DB          DBConfig          `mapstructure:"db"`
	Cron        CronConfig        `mapstructure:"cron"`
	Populate    PopulateConfig    `mapstructure:"populate"`
	PrintStatus PrintStatusConfig `mapstructure:"print_status"`
	Providers   ProvidersConfig   `mapstructure:"providers"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	PrintStatusRefresh string `mapstructure:"print_status_refresh"`
	Populate           string `mapstructure:"populate"`
}

// PopulateConfig controls the scheduled full-game population job. Games is
// the list of game slugs to populate on each tick; an empty list disables
// the job.
type PopulateConfig struct {
	Games        []string `mapstructure:"games"`
	MaxAgeMonths int      `mapstructure:"max_age_months"`
	MaxSets      int      `mapstructure:"max_sets"`
}

type PrintStatusConfig struct {
	OutOfPrintMonths int `mapstructure:"out_of_print_months"`
	VintageMonths    int `mapstructure:"vintage_months"`
}

type ProvidersConfig struct {
	Pokemon    ProviderConfig `mapstructure:"pokemon"`
	YuGiOh     ProviderConfig `mapstructure:"yugioh"`
	MTG        ProviderConfig `mapstructure:"mtg"`
	OnePiece   ProviderConfig `mapstructure:"onepiece"`
	Lorcana    ProviderConfig `mapstructure:"lorcana"`
	Digimon    ProviderConfig `mapstructure:"digimon"`
	DragonBall ProviderConfig `mapstructure:"dragonball"`
}

// ProviderConfig is one upstream catalog API. APIKeyEnv names the environment
// variable holding the key for providers that require one; the key itself
// never lives in config files.
type ProviderConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	APIKeyEnv string        `mapstructure:"api_key_env"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.print_status_refresh", "0 0 4 * * *")
	v.SetDefault("cron.populate", "@every 24h")
	v.SetDefault("populate.games", []string{})
	v.SetDefault("populate.max_age_months", 0)
	v.SetDefault("populate.max_sets", 0)
	v.SetDefault("print_status.out_of_print_months", 24)
	v.SetDefault("print_status.vintage_months", 120)

	v.SetDefault("providers.pokemon.base_url", "https://api.pokemontcg.io/v2")
	v.SetDefault("providers.pokemon.timeout", "15s")
	v.SetDefault("providers.pokemon.api_key_env", "POKEMON_TCG_API_KEY")
	v.SetDefault("providers.yugioh.base_url", "https://db.ygoprodeck.com/api/v7")
	v.SetDefault("providers.yugioh.timeout", "15s")
	v.SetDefault("providers.mtg.base_url", "https://api.scryfall.com")
	v.SetDefault("providers.mtg.timeout", "15s")
	v.SetDefault("providers.lorcana.base_url", "https://api.lorcast.com/v0")
	v.SetDefault("providers.lorcana.timeout", "15s")
	v.SetDefault("providers.onepiece.base_url", "https://apitcg.com/api/one-piece")
	v.SetDefault("providers.onepiece.timeout", "20s")
	v.SetDefault("providers.onepiece.api_key_env", "APITCG_API_KEY")
	v.SetDefault("providers.digimon.base_url", "https://apitcg.com/api/digimon")
	v.SetDefault("providers.digimon.timeout", "20s")
	v.SetDefault("providers.digimon.api_key_env", "APITCG_API_KEY")
	v.SetDefault("providers.dragonball.base_url", "https://apitcg.com/api/dragon-ball-fusion")
	v.SetDefault("providers.dragonball.timeout", "20s")
	v.SetDefault("providers.dragonball.api_key_env", "APITCG_API_KEY")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
