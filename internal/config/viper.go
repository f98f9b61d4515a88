package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "OFT"

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and the environment, in increasing priority.
// A missing config file is only an error when configPath was given explicitly.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	cfg := NewDefaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaultsFromStructRecursive(reflect.ValueOf(cfg), "", v)

	v.AutomaticEnv()

	// Unprefixed key names, as found in existing .env files.
	_ = v.BindEnv("weather.api_key", envPrefix+"_WEATHER_API_KEY", "OPENWEATHER_KEY", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("rapidapi_key", envPrefix+"_RAPIDAPI_KEY", "RAPIDAPI_KEY")
	_ = v.BindEnv("recommend.api_key", envPrefix+"_RECOMMEND_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("image_search.api_key", envPrefix+"_IMAGE_SEARCH_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("image_search.engine_id", envPrefix+"_IMAGE_SEARCH_ENGINE_ID", "GOOGLE_CX_ID")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if key := v.GetString("rapidapi_key"); key != "" {
		for name, src := range cfg.Trends.Sources {
			if src.APIKey == "" {
				src.APIKey = key
				cfg.Trends.Sources[name] = src
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Weather.Units {
	case "metric", "imperial":
	default:
		return fmt.Errorf("invalid weather.units %q: must be metric or imperial", c.Weather.Units)
	}

	if c.Weather.DefaultLocation == "" {
		return errors.New("weather.default_location must not be empty")
	}

	for _, name := range c.Trends.Order {
		if _, ok := c.Trends.Sources[name]; !ok {
			return fmt.Errorf("trends.order references unknown source %q", name)
		}
	}

	if c.Recommend.Enabled && (c.Recommend.BaseURL == "" || c.Recommend.APIKey == "") {
		return errors.New("recommend.base_url and recommend.api_key are required when recommend is enabled")
	}

	if c.ImageSearch.Enabled && (c.ImageSearch.APIKey == "" || c.ImageSearch.EngineID == "") {
		return errors.New("image_search.api_key and image_search.engine_id are required when image_search is enabled")
	}

	for name, src := range c.Trends.Sources {
		if !src.Enabled {
			continue
		}
		if src.Type == "" {
			return fmt.Errorf("trends.sources.%s.type must be set for an enabled source", name)
		}
		if src.BaseURL == "" {
			return fmt.Errorf("trends.sources.%s.base_url must be set for an enabled source", name)
		}
	}

	return nil
}

func SetDefaultsFromStructRecursive(v reflect.Value, prefix string, viper *viper.Viper) {
	// Handle pointer to struct
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Skip unexported fields
		if !fieldValue.CanInterface() {
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			key = strings.ToLower(field.Name)
		}

		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch {
		case fieldValue.Kind() == reflect.Struct:
			SetDefaultsFromStructRecursive(fieldValue, fullKey, viper)
		case fieldValue.Kind() == reflect.Map && fieldValue.Type().Elem().Kind() == reflect.Struct:
			// Per-entry defaults, so a file overriding one field of an entry
			// keeps the rest of it.
			iter := fieldValue.MapRange()
			for iter.Next() {
				SetDefaultsFromStructRecursive(iter.Value(), fullKey+"."+fmt.Sprint(iter.Key().Interface()), viper)
			}
		default:
			viper.SetDefault(fullKey, fieldValue.Interface())
		}
	}
}
