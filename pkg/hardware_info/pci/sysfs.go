package pci

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/jpnorenam/device-scan/pkg/types"
)

const (
	// DefaultSysfsRoot is where sysfs is mounted on the host
	DefaultSysfsRoot = "/sys"

	// pciDevicesDir is relative to the sysfs root
	pciDevicesDir = "bus/pci/devices"

	// UnknownDriver is reported for devices without a resolvable driver
	UnknownDriver = "unknown"
)

// Attributes resolves runtime attributes the kernel exposes for a device
type Attributes interface {
	// Driver returns the name of the bound kernel driver, or UnknownDriver
	Driver(addr types.PciAddress) string
	// BootVGA returns true if the firmware used the device as primary display at boot
	BootVGA(addr types.PciAddress) bool
	// Modalias returns the modalias of the device, or nil
	Modalias(addr types.PciAddress) *string
	// Path returns the resolved sysfs directory of the device, or nil
	Path(addr types.PciAddress) *string
}

// detachedAttributes resolves every attribute to its default, for devices that are not on this host
type detachedAttributes struct{}

func (detachedAttributes) Driver(types.PciAddress) string    { return UnknownDriver }
func (detachedAttributes) BootVGA(types.PciAddress) bool     { return false }
func (detachedAttributes) Modalias(types.PciAddress) *string { return nil }
func (detachedAttributes) Path(types.PciAddress) *string     { return nil }

// SysfsAttributes reads device attributes from <root>/bus/pci/devices/<DDDD:BB:DD.F>/.
// None of the lookups fail: an attribute that can not be read resolves to its default.
type SysfsAttributes struct {
	root string
}

// NewSysfsAttributes returns a resolver for the sysfs tree mounted at root. An empty root means DefaultSysfsRoot.
func NewSysfsAttributes(root string) *SysfsAttributes {
	if root == "" {
		root = DefaultSysfsRoot
	}
	return &SysfsAttributes{root: root}
}

func (s *SysfsAttributes) deviceDir(addr types.PciAddress) string {
	return filepath.Join(s.root, pciDevicesDir, addr.String())
}

// Driver follows the driver symlink to its final target and returns the base name, which is the driver name
func (s *SysfsAttributes) Driver(addr types.PciAddress) string {
	driverLink := filepath.Join(s.deviceDir(addr), "driver")
	target, err := filepath.EvalSymlinks(driverLink)
	if err != nil {
		log.Debugf("No driver for %s: %v", addr, err)
		return UnknownDriver
	}

	name := filepath.Base(target)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return UnknownDriver
	}
	return name
}

// BootVGA reads a single byte from the boot_vga attribute. Only devices of the display class have it.
func (s *SysfsAttributes) BootVGA(addr types.PciAddress) bool {
	f, err := os.Open(filepath.Join(s.deviceDir(addr), "boot_vga"))
	if err != nil {
		return false
	}
	defer f.Close()

	var c [1]byte
	if _, err := io.ReadFull(f, c[:]); err != nil {
		log.Debugf("Can't read boot_vga of %s: %v", addr, err)
		return false
	}
	return c[0] == '1'
}

func (s *SysfsAttributes) Modalias(addr types.PciAddress) *string {
	data, err := os.ReadFile(filepath.Join(s.deviceDir(addr), "modalias"))
	if err != nil {
		return nil
	}
	modalias := strings.TrimSpace(string(data))
	if modalias == "" {
		return nil
	}
	return &modalias
}

// Path resolves the device directory, which in sysfs is a symlink into /sys/devices
func (s *SysfsAttributes) Path(addr types.PciAddress) *string {
	path, err := filepath.EvalSymlinks(s.deviceDir(addr))
	if err != nil {
		return nil
	}
	return &path
}

// chrootOf returns the directory ghw has to treat as root for sysfs to be found at sysfsRoot
func chrootOf(sysfsRoot string) string {
	if sysfsRoot == "" || filepath.Clean(sysfsRoot) == DefaultSysfsRoot {
		return ""
	}
	if filepath.Base(sysfsRoot) != "sys" {
		log.Warnf("Sysfs root %s is not named sys, the bus is scanned below %s/sys", sysfsRoot, filepath.Dir(sysfsRoot))
	}
	return filepath.Dir(filepath.Clean(sysfsRoot))
}
