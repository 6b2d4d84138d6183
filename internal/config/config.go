package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"power_node/internal/node"
)

// envPrefix scopes environment overrides, e.g. POWER_NODE_MQTT_BROKER.
const envPrefix = "POWER_NODE"

type Config struct {
	Server ServerConfig        `mapstructure:"server"`
	DB     DBConfig            `mapstructure:"db"`
	Log    LogConfig           `mapstructure:"log"`
	Auth   AuthConfig          `mapstructure:"auth"`
	MQTT   MQTTConfig          `mapstructure:"mqtt"`
	Node   NodeConfig          `mapstructure:"node"`
	Sim    SimConfig           `mapstructure:"sim"`
	Tools  map[string][]string `mapstructure:"tools" validate:"dive,keys,required,endkeys,min=1"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required"`
}

type DBConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key" validate:"required"`
	TokenTTL   time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

// MQTTConfig configures the appearance publisher. An empty broker disables it.
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id" validate:"required"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix" validate:"required"`
}

type NodeConfig struct {
	HighPowerThreshold  float64       `mapstructure:"high_power_threshold" validate:"gt=0,lt=1"`
	VisualsChangeDelay  time.Duration `mapstructure:"visuals_change_delay" validate:"gte=0"`
	ScrewTime           time.Duration `mapstructure:"screw_time" validate:"gte=0"`
	FullChargeTolerance float64       `mapstructure:"full_charge_tolerance" validate:"gte=0"`
	PowerDeltaTolerance float64       `mapstructure:"power_delta_tolerance" validate:"gte=0"`
}

// SimConfig configures the network battery simulator and the defaults given
// to newly created nodes.
type SimConfig struct {
	Tick       time.Duration `mapstructure:"tick" validate:"gt=0"`
	Capacity   float64       `mapstructure:"capacity" validate:"gt=0"`
	ChargeRate float64       `mapstructure:"charge_rate" validate:"gte=0"`
	Load       float64       `mapstructure:"load" validate:"gte=0"`
	Feed       float64       `mapstructure:"feed" validate:"gte=0"`
}

// NodeTuning converts the node section into the core's tuning struct.
func (c NodeConfig) NodeTuning() node.Config {
	return node.Config{
		HighPowerThreshold:  c.HighPowerThreshold,
		VisualsChangeDelay:  c.VisualsChangeDelay,
		ScrewTime:           c.ScrewTime,
		FullChargeTolerance: c.FullChargeTolerance,
		PowerDeltaTolerance: c.PowerDeltaTolerance,
	}
}

func setDefaults(v *viper.Viper) {
	d := node.DefaultConfig()

	v.SetDefault("server.port", "8080")
	v.SetDefault("db.path", "power_node.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "power-node")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", "power/node")
	v.SetDefault("node.high_power_threshold", d.HighPowerThreshold)
	v.SetDefault("node.visuals_change_delay", d.VisualsChangeDelay)
	v.SetDefault("node.screw_time", d.ScrewTime)
	v.SetDefault("node.full_charge_tolerance", d.FullChargeTolerance)
	v.SetDefault("node.power_delta_tolerance", d.PowerDeltaTolerance)
	v.SetDefault("sim.tick", time.Second)
	v.SetDefault("sim.capacity", 50000.0)
	v.SetDefault("sim.charge_rate", 2000.0)
	v.SetDefault("sim.load", 1500.0)
	v.SetDefault("sim.feed", 5000.0)
	v.SetDefault("tools", map[string][]string{
		"screwdriver": {node.ScrewingQuality},
		"crowbar":     {"Prying"},
		"multitool":   {node.ScrewingQuality, "Pulsing"},
	})
}

// Load reads configs/config.yml (or ./config.yml), applies defaults and
// environment overrides, and validates the result. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile is Load for an explicit config file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks value ranges declared in struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
