package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci"
)

const groupID = "config"

func Group(title string) *cobra.Group {
	return &cobra.Group{
		ID:    groupID,
		Title: title,
	}
}

var nameSources = []string{pci.NamesAuto, pci.NamesPciIds, pci.NamesBuiltin, pci.NamesNone}

// validateValue rejects values the scanner would fail on later
func validateValue(key, value string) error {
	switch key {
	case common.ConfNames:
		if !slices.Contains(nameSources, value) {
			return fmt.Errorf("invalid value %q for %s, expected one of %v", value, key, nameSources)
		}
	case common.ConfGpuProperties:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid value %q for %s, expected true or false", value, key)
		}
	case common.ConfSysfsRoot:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

func validKeys(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return slices.Sorted(maps.Keys(common.DefaultConfig)), cobra.ShellCompDirectiveNoFileComp
}
