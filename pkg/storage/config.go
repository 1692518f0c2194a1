package storage

import (
	"errors"
	"fmt"
	"strings"
)

type Config interface {
	Set(key, value string, confType configType) error
	SetDocument(key string, value any, confType configType) error
	Get(key string) (map[string]any, error)
	GetAll() (map[string]any, error)
	Unset(key string, confType configType) error
}

// snapConfig keeps each config type under its own subtree of the snap configuration:
//
//	config.package.scan.names = auto
//	config.user.scan.names    = none
type snapConfig struct {
	storage storage
}

// NewConfig returns the snap configuration. Outside of a snap, use NewStaticConfig or NewFileConfig instead.
func NewConfig() Config {
	return &snapConfig{
		storage: NewSnapctlStorage(),
	}
}

const configRoot = "config"

type configType string

const (
	PackageConfig configType = "package" // written by the install hook
	UserConfig    configType = "user"
)

// lowest first
var layers = []configType{PackageConfig, UserConfig}

// Set stores a value. A user value may only override a key the package already defines.
func (c *snapConfig) Set(key, value string, confType configType) error {
	if confType == UserConfig {
		existing, err := c.Get(key)
		if err != nil {
			return fmt.Errorf("error looking up %q: %w", key, err)
		}
		if len(existing) == 0 {
			return fmt.Errorf("unknown key %q", key)
		}
	}

	return c.storage.Set(snapKey(confType, key), value)
}

func (c *snapConfig) SetDocument(key string, value any, confType configType) error {
	return c.storage.SetDocument(snapKey(confType, key), value)
}

// Get returns the merged values of key and everything below it, with flat dot-separated keys.
// Get("scan") matches scan.names but not scanner.names.
func (c *snapConfig) Get(key string) (map[string]any, error) {
	merged, err := c.merge()
	if err != nil {
		return nil, err
	}
	return subtree(merged, key), nil
}

func (c *snapConfig) GetAll() (map[string]any, error) {
	return c.merge()
}

func (c *snapConfig) Unset(key string, confType configType) error {
	return c.storage.Unset(snapKey(confType, key))
}

func (c *snapConfig) merge() (map[string]any, error) {
	root, err := c.storage.Get(configRoot)
	if errors.Is(err, ErrorNotFound) {
		return map[string]any{}, nil
	} else if err != nil {
		return nil, err
	}

	merged := make(map[string]any)
	for _, layer := range layers {
		v, found := root[string(layer)]
		if !found {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected value for %s configurations: %v", layer, v)
		}
		flatten(merged, m, "")
	}

	return merged, nil
}

// flatten writes the leaves of m into dst, overwriting existing keys
func flatten(dst, m map[string]any, prefix string) {
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			flatten(dst, child, k)
		} else {
			dst[k] = v
		}
	}
}

func subtree(values map[string]any, key string) map[string]any {
	out := make(map[string]any)
	for k, v := range values {
		if k == key || strings.HasPrefix(k, key+".") {
			out[k] = v
		}
	}
	return out
}

// "." addresses the whole layer
func snapKey(confType configType, key string) string {
	if key == "." {
		return configRoot + "." + string(confType)
	}
	return configRoot + "." + string(confType) + "." + key
}

// StringValue returns values[key] as text. snapctl hands back booleans and numbers unquoted.
func StringValue(values map[string]any, key string) (string, bool) {
	v, found := values[key]
	if !found || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprintf("%v", v), true
}
