package pci

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jpnorenam/device-scan/pkg/types"
)

// Scanner discovers devices on a bus and turns them into typed device records.
// A Scanner must not be used for concurrent scans.
type Scanner struct {
	bus           Bus
	attributes    Attributes
	names         NameResolver
	gpuProperties bool
	probes        map[uint16]PropertyProbe
}

type Option func(*Scanner)

// WithAttributes sets the source of driver, boot_vga, modalias and path. The default reads /sys.
func WithAttributes(attributes Attributes) Option {
	return func(s *Scanner) {
		s.attributes = attributes
	}
}

// WithNameResolver sets the id to name lookup. By default, no names are resolved.
func WithNameResolver(names NameResolver) Option {
	return func(s *Scanner) {
		s.names = names
	}
}

// WithGpuProperties enables the vendor specific GPU property probes
func WithGpuProperties(enabled bool) Option {
	return func(s *Scanner) {
		s.gpuProperties = enabled
	}
}

func NewScanner(bus Bus, opts ...Option) *Scanner {
	s := &Scanner{
		bus:        bus,
		attributes: NewSysfsAttributes(DefaultSysfsRoot),
		names:      noNames{},
		probes:     DefaultPropertyProbes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan enumerates the bus and returns one record per supported device, in bus enumeration order.
// Devices of an unsupported class and placeholder entries with a zero vendor or device id are left out.
// An error wrapping ErrBusUnavailable means the bus could not be opened at all.
func (s *Scanner) Scan() (types.DeviceList, error) {
	session, err := s.bus.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warnf("Error closing pci bus session: %v", err)
		}
	}()

	descriptors, err := session.Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning pci bus: %w", err)
	}

	devices := types.DeviceList{}
	for _, descriptor := range descriptors {
		deviceType := Classify(descriptor.Class)
		if deviceType == types.DeviceTypeUnknown {
			continue
		}
		if placeholder(descriptor) {
			log.Debugf("Skipping placeholder device at %s", descriptor.Address)
			continue
		}
		devices = append(devices, s.newDevice(deviceType, descriptor))
	}

	return devices, nil
}

// Options configure a scan of the host
type Options struct {
	// Resolve vendor and device names
	FriendlyNames bool
	// Run vendor tools to look up GPU properties such as vRAM
	GpuProperties bool
	// Mount point of sysfs, defaults to /sys
	SysfsRoot string
	// One of NamesAuto, NamesPciIds, NamesBuiltin, NamesNone
	NamesSource string
	// pci.ids file to use instead of the system one
	PciIdsPath string
}

func (o Options) scannerOptions() ([]Option, error) {
	opts := []Option{
		WithAttributes(NewSysfsAttributes(o.SysfsRoot)),
		WithGpuProperties(o.GpuProperties),
	}
	if o.FriendlyNames {
		names, err := NewNameResolver(o.NamesSource, o.PciIdsPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithNameResolver(names))
	}
	return opts, nil
}

// Devices scans the PCI bus of the host
func Devices(opts Options) (types.DeviceList, error) {
	scannerOpts, err := opts.scannerOptions()
	if err != nil {
		return nil, err
	}
	return NewScanner(NewSysfsBus(chrootOf(opts.SysfsRoot)), scannerOpts...).Scan()
}

// DevicesFromRawData scans the devices listed in lspci output. The listing usually comes from another machine,
// so attributes are only read when opts.SysfsRoot points at a copy of its sysfs. Without one, every device
// reads as driverless and none as boot VGA. GPU property probes never run, they would query the local GPUs.
func DevicesFromRawData(lsPci string, opts Options) (types.DeviceList, error) {
	if opts.GpuProperties {
		log.Warnf("GPU properties are not looked up for lspci data")
		opts.GpuProperties = false
	}
	scannerOpts, err := opts.scannerOptions()
	if err != nil {
		return nil, err
	}
	if opts.SysfsRoot == "" {
		scannerOpts = append(scannerOpts, WithAttributes(detachedAttributes{}))
	}
	return NewScanner(NewRawBus(lsPci), scannerOpts...).Scan()
}
