package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/canonical/go-snapctl"
)

// SnapctlStorage keeps values in the snap configuration, so they survive restarts and refreshes
type SnapctlStorage struct{}

func NewSnapctlStorage() *SnapctlStorage {
	return &SnapctlStorage{}
}

func (s *SnapctlStorage) Set(key, value string) error {
	return snapctl.Set(key, value).Run()
}

func (s *SnapctlStorage) SetDocument(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return snapctl.Set(key, string(b)).Document().Run()
}

func (s *SnapctlStorage) Get(key string) (map[string]any, error) {
	valJson, err := snapctl.Get(key).Run()
	if err != nil {
		return nil, fmt.Errorf("snapctl get %s: %w", key, err)
	}
	if valJson == "" {
		return nil, ErrorNotFound
	}

	return parseSnapctlValue(key, valJson)
}

// parseSnapctlValue returns objects as maps, and primitives as a map with a single entry for the full key
func parseSnapctlValue(key, valJson string) (map[string]any, error) {
	var valMap map[string]any
	if strings.HasPrefix(valJson, "{") && strings.HasSuffix(valJson, "}") {
		err := json.Unmarshal([]byte(valJson), &valMap)
		if err != nil {
			return nil, err
		}
	} else {
		valMap = map[string]any{
			key: valJson,
		}
	}

	return valMap, nil
}

func (s *SnapctlStorage) Unset(key string) error {
	return snapctl.Unset(key).Run()
}
