package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/config"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gaze-network/omniverse-transformer/pkg/logger/slogx"
	"github.com/gaze-network/omniverse-transformer/pkg/middleware/requestcontext"
	"github.com/gaze-network/omniverse-transformer/pkg/middleware/requestlogger"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit bool
	mu     sync.Mutex
	conf   = &Config{
		Logger: logger.Config{
			Output: "TEXT",
			Level:  "info",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
			Logger: requestlogger.Config{
				SkipPaths: []string{"/"},
			},
		},
		Transformer: config.Config{
			Datasource: "memory",
			LocalToken: config.LocalTokenConfig{
				Type: "memory",
			},
			Sweeper: config.SweeperConfig{
				Interval: config.DefaultSweepInterval,
			},
		},
	}
)

type Config struct {
	Logger      logger.Config    `mapstructure:"logger"`
	HTTPServer  HTTPServerConfig `mapstructure:"http_server"`
	Transformer config.Config    `mapstructure:"transformer"`
}

type HTTPServerConfig struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"requestip"`
}

// Parse parse the configuration from environment variables, .env and the config file.
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

// Load returns the loaded configuration
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	if isInit {
		return *conf
	}
	return parse()
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	Viper.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String(logger.ModuleKey, "config"), slogx.Error(err))
	}
}

// SetDefault sets the default value for this key.
// SetDefault is case-insensitive for a key.
// Default only used when no value is provided by the user via flag, config or ENV.
func SetDefault(key string, value any) { viper.SetDefault(key, value) }

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String(logger.ModuleKey, "config"))

	if err := godotenv.Load(); err != nil {
		logger.DebugContext(ctx, "no .env file loaded", slogx.Error(err))
	}

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&conf); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *conf
}
