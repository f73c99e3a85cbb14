package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"astroview/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// Secrets (GitHub token, map key) normally arrive via the environment;
	// a local .env is honored when present.
	_ = godotenv.Load()

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "ASTRO_LOG_LEVEL")
	viper.BindEnv("feed.url", "ASTRO_FEED_URL")
	viper.BindEnv("refresh.interval", "ASTRO_REFRESH_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "ASTRO_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "ASTRO_CACHE_ENABLED")
	viper.BindEnv("cache.size", "ASTRO_CACHE_SIZE")
	viper.BindEnv("github.token", "ASTRO_GITHUB_TOKEN")
	viper.BindEnv("map.apiKey", "AMAP_API_KEY")
	viper.BindEnv("map.securityCode", "AMAP_SECURITY_JS_CODE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "AstroView"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
