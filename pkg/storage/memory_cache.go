package storage

import (
	"fmt"

	"github.com/jpnorenam/device-scan/pkg/types"
)

type memoryCache struct {
	hwInfo *types.HwInfo
	load   HwInfoLoader
}

// NewMemoryCache returns a Cache that lives as long as the process
func NewMemoryCache(load HwInfoLoader) Cache {
	return &memoryCache{load: load}
}

func (c *memoryCache) SetHwInfo(hwInfo types.HwInfo) error {
	c.hwInfo = &hwInfo
	return nil
}

func (c *memoryCache) GetHwInfo() (*types.HwInfo, error) {
	if c.hwInfo == nil {
		hwInfo, err := c.load()
		if err != nil {
			return nil, fmt.Errorf("error getting hardware info: %w", err)
		}
		c.hwInfo = hwInfo
	}
	return c.hwInfo, nil
}
