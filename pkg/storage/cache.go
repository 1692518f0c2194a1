package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canonical/go-snapctl/env"
	log "github.com/sirupsen/logrus"

	"github.com/jpnorenam/device-scan/pkg/types"
)

// Cache keeps the result of the last scan, so that lookups of single devices don't rescan the bus
type Cache interface {
	SetHwInfo(hwInfo types.HwInfo) error
	// GetHwInfo returns the cached scan, or scans if there is none
	GetHwInfo() (*types.HwInfo, error)
}

// HwInfoLoader scans the machine
type HwInfoLoader func() (*types.HwInfo, error)

type cache struct {
	hwInfoTempFile string
	load           HwInfoLoader
}

// NewCache returns a Cache backed by a file in the temporary directory. The file name contains the snap revision,
// so a refresh of the snap starts with an empty cache.
func NewCache(load HwInfoLoader) Cache {
	name := "device-scan-hw-info"
	if revision := env.SnapRevision(); revision != "" {
		name += "-" + revision
	}
	return &cache{
		hwInfoTempFile: filepath.Join(os.TempDir(), name+".json"),
		load:           load,
	}
}

func (c *cache) SetHwInfo(hwInfo types.HwInfo) error {
	b, err := json.Marshal(hwInfo)
	if err != nil {
		return fmt.Errorf("error marshalling hardware info to json: %v", err)
	}

	err = os.WriteFile(c.hwInfoTempFile, b, 0644)
	if err != nil {
		return fmt.Errorf("error writing hardware info to temp file: %v", err)
	}

	return nil
}

func (c *cache) GetHwInfo() (*types.HwInfo, error) {
	b, err := os.ReadFile(c.hwInfoTempFile)
	if err != nil {
		if os.IsNotExist(err) { // cache miss
			return c.loadHwInfo()
		}

		return nil, fmt.Errorf("error reading hardware info from temp file: %v", err)
	}

	var hwInfo types.HwInfo
	err = json.Unmarshal(b, &hwInfo)
	if err != nil {
		// Written by an incompatible version, scan again
		log.Debugf("Discarding cached hardware info: %v", err)
		return c.loadHwInfo()
	}

	return &hwInfo, nil
}

func (c *cache) loadHwInfo() (*types.HwInfo, error) {
	hwInfo, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("error getting hardware info: %w", err)
	}

	err = c.SetHwInfo(*hwInfo)
	if err != nil {
		return nil, fmt.Errorf("error caching hardware info: %v", err)
	}

	return hwInfo, nil
}
