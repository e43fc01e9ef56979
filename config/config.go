package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

type consumers struct {
	SalesCounterGroup string `mapstructure:"sales_counter_group"`
}

type topics struct {
	OrderEvents string `mapstructure:"order_events"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type redis struct {
	Addr          string `mapstructure:"addr"`
	CartKeyPrefix string `mapstructure:"cart_key_prefix"`
}

type pricing struct {
	ShippingFee float64 `mapstructure:"shipping_fee"`
	TaxRate     float64 `mapstructure:"tax_rate"`
}

type Config struct {
	LogLevel       slog.Level     `mapstructure:"log_level"`
	HTTPServerAddr string         `mapstructure:"http_server_addr"`
	SQLDB          string         `mapstructure:"sql_db"`
	Redis          redis          `mapstructure:"redis"`
	Pricing        pricing        `mapstructure:"pricing"`
	Coupons        map[string]int `mapstructure:"coupons"`
	Broker         broker         `mapstructure:"broker"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
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
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SQLDB=%q

	Redis:
	Addr=%q
	CartKeyPrefix=%q

	Pricing:
	ShippingFee=%v
	TaxRate=%v
	Coupons=%v

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		OrderEvents=%q
	Consumers:
		SalesCounterGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SQLDB,
		c.Redis.Addr,
		c.Redis.CartKeyPrefix,
		c.Pricing.ShippingFee,
		c.Pricing.TaxRate,
		c.Coupons,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.OrderEvents,
		c.Broker.Consumers.SalesCounterGroup,
	)
}
