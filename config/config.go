package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "OTAKUSHOP_CONFIG_FILE"

type pricing struct {
	FreeShippingThreshold float64 `mapstructure:"free_shipping_threshold"`
	FlatShippingFee       float64 `mapstructure:"flat_shipping_fee"`
	TaxRate               float64 `mapstructure:"tax_rate"`
}

type auth struct {
	TokenSecret      string        `mapstructure:"token_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	LoginRatePerMin  int           `mapstructure:"login_rate_per_min"`
	SimulatedLatency time.Duration `mapstructure:"simulated_latency"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	CatalogFile    string     `mapstructure:"catalog_file"`
	StateFile      string     `mapstructure:"state_file"`
	Pricing        pricing    `mapstructure:"pricing"`
	Auth           auth       `mapstructure:"auth"`
}

func Load() Config {
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("http_server_addr", ":8080")
	viper.SetDefault("catalog_file", "data/catalog.json")
	viper.SetDefault("state_file", "data/state.json")
	viper.SetDefault("pricing.free_shipping_threshold", 50)
	viper.SetDefault("pricing.flat_shipping_fee", 5.99)
	viper.SetDefault("pricing.tax_rate", 0.08)
	viper.SetDefault("auth.token_secret", "dev_secret_change_in_prod")
	viper.SetDefault("auth.token_ttl", 24*time.Hour)
	viper.SetDefault("auth.login_rate_per_min", 5)
	viper.SetDefault("auth.simulated_latency", time.Second)

	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	slog.Info("loaded config",
		"logLevel", c.LogLevel,
		"httpServerAddr", c.HTTPServerAddr,
		"catalogFile", c.CatalogFile,
		"stateFile", c.StateFile,
		"freeShippingThreshold", c.Pricing.FreeShippingThreshold,
		"flatShippingFee", c.Pricing.FlatShippingFee,
		"taxRate", c.Pricing.TaxRate,
		"tokenTTL", c.Auth.TokenTTL,
		"loginRatePerMin", c.Auth.LoginRatePerMin,
		"simulatedLatency", c.Auth.SimulatedLatency,
	)
}
