package hardware_info

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci"
	"github.com/jpnorenam/device-scan/pkg/types"
	"github.com/jpnorenam/device-scan/pkg/utils"

	"github.com/go-test/deep"
)

var devices = []string{
	"xps13-7390",
	"i5-3570k+arc-a580+gtx1080ti",
	"server-aspeed",
}

func TestGetFromFiles(t *testing.T) {
	for _, device := range devices {
		t.Run(device, func(t *testing.T) {
			hwInfo, err := GetFromRawData(t, device, true, "../../test_data")
			if err != nil {
				t.Error(err)
			}

			var hardwareInfo types.HwInfo
			devicePath := "../../test_data/machines/" + device + "/"
			hardwareInfoData, err := os.ReadFile(devicePath + "hardware-info.json")
			if err != nil {
				t.Fatal(err)
			}
			err = json.Unmarshal(hardwareInfoData, &hardwareInfo)
			if err != nil {
				t.Fatal(err)
			}

			// Ignore friendly names during deep equal, as they depend on the version of the pci-id database
			for _, gpu := range hwInfo.PciDevices.GPUs() {
				gpu.Name = nil
				gpu.Vendor = nil
			}
			for _, gpu := range hardwareInfo.PciDevices.GPUs() {
				gpu.Name = nil
				gpu.Vendor = nil
			}

			if diff := deep.Equal(*hwInfo, hardwareInfo); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestFriendlyNames(t *testing.T) {
	hwInfo, err := GetFromRawData(t, "xps13-7390", true, "../../test_data")
	if err != nil {
		t.Fatal(err)
	}
	for _, gpu := range hwInfo.PciDevices.GPUs() {
		if gpu.GetVendor() == "" {
			t.Errorf("no vendor name for %s", gpu.Address)
		}
	}

	hwInfo, err = GetFromRawData(t, "xps13-7390", false, "../../test_data")
	if err != nil {
		t.Fatal(err)
	}
	for _, gpu := range hwInfo.PciDevices.GPUs() {
		if gpu.Name != nil || gpu.Vendor != nil {
			t.Errorf("unexpected names for %s", gpu.Address)
		}
	}
}

func TestBootVGA(t *testing.T) {
	hwInfo, err := GetFromRawData(t, "i5-3570k+arc-a580+gtx1080ti", false, "../../test_data")
	if err != nil {
		t.Fatal(err)
	}
	bootVGA := hwInfo.PciDevices.BootVGA()
	if bootVGA == nil {
		t.Fatal("no boot vga device")
	}
	if bootVGA.Address.String() != "0000:01:00.0" {
		t.Errorf("unexpected boot vga device %s", bootVGA.Address)
	}
}

func TestDumpHwInfoFromFiles(t *testing.T) {
	machine := "i5-3570k+arc-a580+gtx1080ti"
	hwInfo, err := GetFromRawData(t, machine, true, "../../test_data")
	if err != nil {
		t.Error(err)
	}
	jsonData, err := json.MarshalIndent(hwInfo, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	t.Log(string(jsonData))
}

func TestGetGpuPropertiesNeedsRoot(t *testing.T) {
	if utils.IsRootUser() {
		t.Skip("running as root")
	}

	_, err := Get(pci.Options{GpuProperties: true, SysfsRoot: t.TempDir()})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected %v, got %v", ErrPermissionDenied, err)
	}
}
