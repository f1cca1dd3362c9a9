// Package config loads service configuration. Sources in increasing
// priority: built-in defaults, <service>.yaml, .env, then environment
// variables named <SERVICE>_<SECTION>_<KEY>.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"PhoneCompare/pkg/kit"
)

// Validator is implemented by configs with checks that struct tags cannot
// express.
type Validator interface {
	Validate() error
}

// Load builds a T for the named service. The yaml file path can be
// overridden with <SERVICE>_CONFIG.
func Load[T any](service string, defaults map[string]any) (T, error) {
	var cfg T
	k := koanf.New(".")

	envPrefix := strings.ToUpper(service) + "_"
	transform := func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	configFile := service + ".yaml"
	if v := os.Getenv(envPrefix + "CONFIG"); v != "" {
		configFile = v
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("load %s: %w", configFile, err)
		}
	}

	if fileEnv, err := godotenv.Read(".env"); err == nil {
		m := make(map[string]any)
		for key, value := range fileEnv {
			if strings.HasPrefix(key, envPrefix) {
				m[transform(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", transform), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}
	k.Delete("config")

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := kit.NewValidator().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	if v, ok := any(&cfg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return cfg, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}
