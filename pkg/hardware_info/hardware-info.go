package hardware_info

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci"
	"github.com/jpnorenam/device-scan/pkg/types"
	"github.com/jpnorenam/device-scan/pkg/utils"
)

// ErrPermissionDenied is returned when an operation needs root
var ErrPermissionDenied = errors.New("permission denied, try again with sudo")

// Get scans the buses of the host. Only the PCI bus is supported for now.
func Get(opts pci.Options) (*types.HwInfo, error) {
	// clinfo needs root to look up vram on at least Ubuntu 25.10
	if opts.GpuProperties && !utils.IsRootUser() {
		return nil, fmt.Errorf("%w: GPU properties need root", ErrPermissionDenied)
	}

	var hwInfo types.HwInfo

	pciDevices, err := pci.Devices(opts)
	if err != nil {
		return nil, fmt.Errorf("error getting pci devices: %w", err)
	}
	hwInfo.PciDevices = pciDevices

	return &hwInfo, nil
}

// sysfsFixture describes the sysfs attributes of the devices of a test machine
type sysfsFixture struct {
	Devices map[string]struct {
		Driver   string `yaml:"driver"`
		BootVGA  string `yaml:"boot-vga"`
		Modalias string `yaml:"modalias"`
	} `yaml:"devices"`
}

// GetFromRawData is mainly used during testing, but also from other packages, and therefore needs to be exported.
// The bus is replayed from lspci.txt, and the device attributes come from a sysfs tree generated from sysfs.yaml.
func GetFromRawData(t *testing.T, device string, friendlyNames bool, testDir string) (*types.HwInfo, error) {
	var hwInfo types.HwInfo

	devicePath := testDir + "/machines/" + device + "/"

	sysfsRoot := filepath.Join(t.TempDir(), "sys")
	sysfsData, err := os.ReadFile(devicePath + "sysfs.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			t.Fatal(err)
		}
		// No attributes for this machine, every device reads as driverless
	} else {
		var fixture sysfsFixture
		if err := yaml.Unmarshal(sysfsData, &fixture); err != nil {
			t.Fatal(err)
		}
		for slot, attrs := range fixture.Devices {
			addr, err := types.ParsePciAddress(slot)
			if err != nil {
				t.Fatal(err)
			}
			files := map[string]string{}
			if attrs.BootVGA != "" {
				files["boot_vga"] = attrs.BootVGA + "\n"
			}
			if attrs.Modalias != "" {
				files["modalias"] = attrs.Modalias + "\n"
			}
			writeSysfsDevice(t, sysfsRoot, addr, attrs.Driver, files)
		}
	}

	// pci
	pciData, err := os.ReadFile(devicePath + "lspci.txt")
	if err != nil {
		t.Fatal(err)
	}
	opts := pci.Options{
		FriendlyNames: friendlyNames,
		NamesSource:   pci.NamesBuiltin,
		SysfsRoot:     sysfsRoot,
	}
	pciDevices, err := pci.DevicesFromRawData(string(pciData), opts)
	if err != nil {
		t.Fatal(err)
	}
	hwInfo.PciDevices = pciDevices

	// Sysfs paths depend on the temporary directory
	for _, gpu := range hwInfo.PciDevices.GPUs() {
		gpu.Path = nil
	}

	// Additional properties - we append these directly from a file, as we can not run the vendor specific tools on the machine
	addPropsFile := devicePath + "additional-properties.json"
	_, err = os.Stat(addPropsFile)
	if err != nil {
		if os.IsNotExist(err) {
			// File does not exist. Skipping additional properties
		} else {
			t.Fatalf("error checking file '%s': %v\n", addPropsFile, err)
		}
	} else {
		var addProps map[string]map[string]string
		addPropsData, err := os.ReadFile(addPropsFile)
		if err != nil {
			t.Fatal(err)
		}
		err = json.Unmarshal(addPropsData, &addProps)
		if err != nil {
			t.Fatal(err)
		}
		for _, gpu := range hwInfo.PciDevices.GPUs() {
			if val, ok := addProps[gpu.Address.String()]; ok {
				gpu.Properties = val
			}
		}
	}

	return &hwInfo, nil
}

// writeSysfsDevice lays out a device below sysfsRoot with the same symlinks the kernel creates
func writeSysfsDevice(t *testing.T, sysfsRoot string, addr types.PciAddress, driver string, files map[string]string) {
	deviceDir := filepath.Join(sysfsRoot, "devices", fmt.Sprintf("pci%04x:%02x", addr.Domain, addr.Bus), addr.String())
	if err := os.MkdirAll(deviceDir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(deviceDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	busDir := filepath.Join(sysfsRoot, "bus", "pci", "devices")
	if err := os.MkdirAll(busDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(deviceDir, filepath.Join(busDir, addr.String())); err != nil {
		t.Fatal(err)
	}

	if driver != "" {
		driverDir := filepath.Join(sysfsRoot, "bus", "pci", "drivers", driver)
		if err := os.MkdirAll(driverDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(driverDir, filepath.Join(deviceDir, "driver")); err != nil {
			t.Fatal(err)
		}
	}
}
