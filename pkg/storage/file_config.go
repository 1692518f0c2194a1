package storage

import (
	"bufio"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"
)

// staticConfig implements Config on top of a fixed set of values.
// It is read-only; Set, SetDocument, and Unset return errors.
type staticConfig struct {
	values map[string]any
}

// NewStaticConfig returns a read-only Config with the given flat key-value pairs
func NewStaticConfig(values map[string]any) Config {
	c := &staticConfig{values: make(map[string]any, len(values))}
	maps.Copy(c.values, values)
	return c
}

// NewFileConfig reads the file at path and returns a Config backed by its contents, on top of the defaults.
// Each line must be in the format: key="value"
func NewFileConfig(path string, defaults map[string]any) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	values := make(map[string]any, len(defaults))
	maps.Copy(values, defaults)

	scanner := bufio.NewScanner(f)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("config file line %d: expected key=\"value\"", lineNumber)
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		// Go quoting, as written by config get. Bare values are taken as is.
		if unquoted, err := strconv.Unquote(val); err == nil {
			val = unquoted
		}
		values[key] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return &staticConfig{values: values}, nil
}

func (c *staticConfig) Get(key string) (map[string]any, error) {
	return subtree(c.values, key), nil
}

func (c *staticConfig) GetAll() (map[string]any, error) {
	result := make(map[string]any, len(c.values))
	maps.Copy(result, c.values)
	return result, nil
}

var errReadOnly = fmt.Errorf("config is read-only outside of the snap")

func (c *staticConfig) Set(key, value string, confType configType) error {
	return errReadOnly
}

func (c *staticConfig) SetDocument(key string, value any, confType configType) error {
	return errReadOnly
}

func (c *staticConfig) Unset(key string, confType configType) error {
	return errReadOnly
}
