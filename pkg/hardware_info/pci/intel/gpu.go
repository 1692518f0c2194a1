package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jpnorenam/device-scan/pkg/types"
)

const clInfoTimeout = 10 * time.Second

// GpuProperties looks up the properties of an Intel GPU that are not exposed on the bus
func GpuProperties(addr types.PciAddress) (map[string]string, error) {
	properties := make(map[string]string)

	clinfoJson, err := clinfo()
	if err != nil {
		return nil, fmt.Errorf("error executing clinfo: %v", err)
	}

	vRamVal, err := vRamFromClinfo(clinfoJson, addr)
	if err != nil {
		return nil, fmt.Errorf("error looking up vRAM: %v", err)
	}
	if vRamVal != nil {
		properties["vram"] = strconv.FormatUint(*vRamVal, 10)
	}

	return properties, nil
}

func clinfo() ([]byte, error) {
	ctx := context.Background()
	cmdContext, cancel := context.WithTimeout(ctx, clInfoTimeout)
	defer cancel()

	command := exec.CommandContext(cmdContext, "clinfo", "--json")

	// Set process group and kill the entire process tree on cancel
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	command.Cancel = func() error {
		return syscall.Kill(-command.Process.Pid, syscall.SIGKILL)
	}

	return command.Output()
}

// vRamFromClinfo finds the global memory size of the OpenCL device on the given PCI address.
// CL_DEVICE_GLOBAL_MEM_SIZE corresponds to the installed vRAM.
func vRamFromClinfo(clinfoJson []byte, addr types.PciAddress) (*uint64, error) {
	var info Clinfo
	if err := json.Unmarshal(clinfoJson, &info); err != nil {
		return nil, fmt.Errorf("failed to parse clinfo json: %w", err)
	}
	if len(info.Devices) == 0 {
		return nil, fmt.Errorf("clinfo: no devices found")
	}

	slot := addr.String()
	for _, platform := range info.Devices {
		for _, device := range platform.Online {
			// Bus info looks like "PCI-E, 0000:00:02.0"
			if strings.Contains(device.ClDevicePciBusInfoKhr, slot) {
				vram := device.ClDeviceGlobalMemSize
				return &vram, nil
			}
		}
	}
	return nil, nil
}
