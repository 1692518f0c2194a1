package nvidia

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jpnorenam/device-scan/pkg/types"
)

const nvidiaSmiTimeout = 30 * time.Second

// GpuProperties looks up the vRAM and CUDA compute capability of an NVIDIA GPU
func GpuProperties(addr types.PciAddress) (map[string]string, error) {
	properties := make(map[string]string)

	vRamVal, err := vRam(addr)
	if err != nil {
		return nil, fmt.Errorf("error looking up vRAM: %v", err)
	}
	if vRamVal != nil {
		properties["vram"] = strconv.FormatUint(*vRamVal, 10)
	}

	ccVal, err := computeCapability(addr)
	if err != nil {
		return nil, fmt.Errorf("error looking up compute capability: %v", err)
	}
	if ccVal != nil {
		properties["compute-capability"] = *ccVal
	}

	return properties, nil
}

// nvidia-smi identifies devices by bus id with an 8 digit domain
func busId(addr types.PciAddress) string {
	return fmt.Sprintf("%08x:%02x:%02x.%x", addr.Domain, addr.Bus, addr.Device, addr.Function)
}

func vRam(addr types.PciAddress) (*uint64, error) {
	/*
		$ nvidia-smi --id=00000000:01:00.0 --query-gpu=memory.total --format=csv,noheader
		4096 MiB
		$ nvidia-smi --id=00000000:02:00.0 --query-gpu=memory.total --format=csv,noheader
		No devices were found
	*/
	output, err := nvidiaSmi("--id="+busId(addr), "--query-gpu=memory.total", "--format=csv,noheader")
	if err != nil {
		return nil, fmt.Errorf("error executing nvidia-smi: %s", err)
	}

	vramValue, err := parseMemory(*output)
	if err != nil {
		return nil, err
	}
	return &vramValue, nil
}

// parseMemory converts a value like "4096 MiB" to bytes
func parseMemory(value string) (uint64, error) {
	valueStr, unit, hasUnit := strings.Cut(strings.TrimSpace(value), " ")
	memory, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return 0, err
	}

	if hasUnit {
		switch unit {
		case "KiB":
			memory = memory * 1024
		case "MiB":
			memory = memory * 1024 * 1024
		case "GiB":
			memory = memory * 1024 * 1024 * 1024
		default:
			return 0, fmt.Errorf("unknown memory unit %q", unit)
		}
	}

	return memory, nil
}

func computeCapability(addr types.PciAddress) (*string, error) {
	// nvidia-smi --query-gpu=compute_cap --format=csv,noheader
	output, err := nvidiaSmi("--id="+busId(addr), "--query-gpu=compute_cap", "--format=csv,noheader")
	if err != nil {
		return nil, fmt.Errorf("error executing nvidia-smi: %s", err)
	}

	return output, nil
}

func nvidiaSmi(args ...string) (*string, error) {
	ctx := context.Background()
	cmdContext, cancel := context.WithTimeout(ctx, nvidiaSmiTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdContext, "nvidia-smi", args...)

	// Set process group and kill the entire process tree on cancel
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "LANG=C")

	output, err := cmd.Output()
	if err != nil {
		if len(output) == 0 {
			return nil, err
		}
		// nvidia-smi writes error messages to stdout
		return nil, fmt.Errorf("%s: %s", err, bytes.TrimSpace(output))
	}

	strOutput := string(bytes.TrimSpace(output))
	return &strOutput, nil
}
