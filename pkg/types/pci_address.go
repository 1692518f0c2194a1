package types

import (
	"fmt"
	"strconv"
	"strings"
)

// PciAddress is the location of a function on the PCI bus. Together the four fields identify a physical slot.
type PciAddress struct {
	Domain   uint `json:"domain" yaml:"domain"`
	Bus      uint `json:"bus" yaml:"bus"`
	Device   uint `json:"device" yaml:"device"`
	Function uint `json:"function" yaml:"function"`
}

// String returns the canonical DDDD:BB:DD.F form used as the device directory name in sysfs
func (a PciAddress) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%x", a.Domain, a.Bus, a.Device, a.Function)
}

// ParsePciAddress parses an address in DDDD:BB:DD.F form. The domain may be omitted, in which case it is 0,
// as printed by lspci without -D.
func ParsePciAddress(s string) (PciAddress, error) {
	var addr PciAddress

	s = strings.TrimSpace(s)
	rest, function, found := strings.Cut(s, ".")
	if !found {
		return addr, fmt.Errorf("invalid pci address %q: missing function", s)
	}

	parts := strings.Split(rest, ":")
	switch len(parts) {
	case 2:
		parts = append([]string{"0"}, parts...)
	case 3:
	default:
		return addr, fmt.Errorf("invalid pci address %q", s)
	}

	fields := []struct {
		value   string
		bitSize int
		dest    *uint
	}{
		{parts[0], 32, &addr.Domain},
		{parts[1], 8, &addr.Bus},
		{parts[2], 5, &addr.Device},
		{function, 3, &addr.Function},
	}
	for _, field := range fields {
		val, err := strconv.ParseUint(field.value, 16, field.bitSize)
		if err != nil {
			return addr, fmt.Errorf("invalid pci address %q: %w", s, err)
		}
		*field.dest = uint(val)
	}

	return addr, nil
}
