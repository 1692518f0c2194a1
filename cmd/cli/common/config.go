package common

import (
	"fmt"
	"strconv"

	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci"
	"github.com/jpnorenam/device-scan/pkg/storage"
)

// Configuration keys
const (
	ConfSysfsRoot     = "scan.sysfs-root"
	ConfNames         = "scan.names"
	ConfPciIdsPath    = "scan.pci-ids-path"
	ConfGpuProperties = "scan.gpu-properties"
)

// DefaultConfig is applied by the install hook, and used as is outside of a snap
var DefaultConfig = map[string]any{
	ConfSysfsRoot:     pci.DefaultSysfsRoot,
	ConfNames:         pci.NamesAuto,
	ConfPciIdsPath:    "",
	ConfGpuProperties: "false",
}

// ScanOptions builds the scan options from the configuration. Missing keys fall back to DefaultConfig.
func ScanOptions(cfg storage.Config) (pci.Options, error) {
	values, err := cfg.Get("scan")
	if err != nil {
		return pci.Options{}, fmt.Errorf("error getting scan configuration: %v", err)
	}

	get := func(key string) string {
		if val, found := storage.StringValue(values, key); found {
			return val
		}
		val, _ := storage.StringValue(DefaultConfig, key)
		return val
	}

	opts := pci.Options{
		FriendlyNames: true,
		SysfsRoot:     get(ConfSysfsRoot),
		NamesSource:   get(ConfNames),
		PciIdsPath:    get(ConfPciIdsPath),
	}
	if opts.NamesSource == pci.NamesNone {
		opts.FriendlyNames = false
	}

	gpuProperties := get(ConfGpuProperties)
	opts.GpuProperties, err = strconv.ParseBool(gpuProperties)
	if err != nil {
		return pci.Options{}, fmt.Errorf("invalid value %q for %s: expected true or false", gpuProperties, ConfGpuProperties)
	}

	return opts, nil
}
