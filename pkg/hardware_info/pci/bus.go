package pci

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/option"
	"github.com/jaypipes/ghw/pkg/pci/address"
	log "github.com/sirupsen/logrus"

	"github.com/jpnorenam/device-scan/pkg/types"
)

// ErrBusUnavailable is returned when a bus session can not be opened. There is no way to recover from a missing
// bus subsystem, so callers should treat it as fatal.
var ErrBusUnavailable = errors.New("pci bus access unavailable")

// Descriptor is a raw device record as reported by the bus, before classification
type Descriptor struct {
	Address  types.PciAddress
	VendorId uint16
	DeviceId uint16
	// Base class in the high byte, subclass in the low byte
	Class uint16
}

// Bus opens scan sessions on a PCI bus
type Bus interface {
	Open() (Session, error)
}

// Session is an open scan session. It must be closed once the scan is done.
type Session interface {
	Scan() ([]Descriptor, error)
	Close() error
}

// ghwBus enumerates devices through ghw, reading sysfs below the chroot
type ghwBus struct {
	chroot string
}

// NewSysfsBus returns a Bus backed by the sysfs tree of the host. The chroot is the directory that contains sys/,
// normally "/".
func NewSysfsBus(chroot string) Bus {
	return &ghwBus{chroot: chroot}
}

func (b *ghwBus) Open() (Session, error) {
	opts := []*option.Option{
		option.WithDisableTools(),
		option.WithNullAlerter(),
	}
	if b.chroot != "" {
		opts = append(opts, option.WithChroot(b.chroot))
	}

	var info *ghw.PCIInfo
	err := withEmptyPciIds(func() error {
		var err error
		info, err = ghw.PCI(opts...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBusUnavailable, err)
	}
	return &ghwSession{info: info}, nil
}

const pcidbPathEnv = "PCIDB_PATH"

var pcidbPathMu sync.Mutex

// withEmptyPciIds runs load with pcidb pointed at an empty pci.ids file. ghw loads a names database on every
// scan and fails without one, while names are resolved by the NameResolver. With an empty database ghw still
// decodes ids and class from modalias.
func withEmptyPciIds(load func() error) error {
	f, err := os.CreateTemp("", "device-scan-*.ids")
	if err != nil {
		log.Warnf("Error creating empty pci.ids, ghw falls back to the host database: %v", err)
		return load()
	}
	path := f.Name()
	defer os.Remove(path)
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}

	pcidbPathMu.Lock()
	defer pcidbPathMu.Unlock()

	prev, wasSet := os.LookupEnv(pcidbPathEnv)
	if err := os.Setenv(pcidbPathEnv, path); err != nil {
		return fmt.Errorf("error setting %s: %w", pcidbPathEnv, err)
	}
	defer func() {
		if wasSet {
			_ = os.Setenv(pcidbPathEnv, prev)
		} else {
			_ = os.Unsetenv(pcidbPathEnv)
		}
	}()

	return load()
}

type ghwSession struct {
	info *ghw.PCIInfo
}

func (s *ghwSession) Scan() ([]Descriptor, error) {
	if s.info == nil {
		return nil, fmt.Errorf("scan on closed session")
	}

	var descriptors []Descriptor
	for _, dev := range s.info.Devices {
		pciAddr := address.FromString(dev.Address)
		if pciAddr == nil {
			return nil, fmt.Errorf("unexpected pci address %q", dev.Address)
		}

		descriptor := Descriptor{
			Address: types.PciAddress{
				Domain:   uint(hexToUint(pciAddr.Domain, 32)),
				Bus:      uint(hexToUint(pciAddr.Bus, 8)),
				Device:   uint(hexToUint(pciAddr.Device, 8)),
				Function: uint(hexToUint(pciAddr.Function, 8)),
			},
		}
		if dev.Vendor != nil {
			descriptor.VendorId = uint16(hexToUint(dev.Vendor.ID, 16))
		}
		if dev.Product != nil {
			descriptor.DeviceId = uint16(hexToUint(dev.Product.ID, 16))
		}
		if dev.Class != nil && dev.Subclass != nil {
			descriptor.Class = uint16(hexToUint(dev.Class.ID, 8)<<8 | hexToUint(dev.Subclass.ID, 8))
		}

		descriptors = append(descriptors, descriptor)
	}

	return descriptors, nil
}

func (s *ghwSession) Close() error {
	s.info = nil
	return nil
}

// hexToUint decodes the hex strings used by ghw, with or without 0x prefix. Malformed values decode to 0, which
// the scanner treats as a placeholder entry.
func hexToUint(s string, bitSize int) uint64 {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	val, err := strconv.ParseUint(s, 16, bitSize)
	if err != nil {
		return 0
	}
	return val
}
