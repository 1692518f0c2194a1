package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/types"
)

type validateCommand struct {
	*common.Context
}

func ValidateCommand(ctx *common.Context) *cobra.Command {
	var cmd validateCommand
	cmd.Context = ctx

	cobraCmd := &cobra.Command{
		Use:   "validate-scan <file>...",
		Short: "Validate saved scan results",
		Long:  "Validate scan results saved with \"scan --format json\" or \"scan --format yaml\"",
		Args:  cobra.MinimumNArgs(1),
		RunE:  cmd.run,
	}

	return cobraCmd
}

func (cmd *validateCommand) run(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no scan result specified")
	}

	allValid := true
	for _, path := range args {
		err := validateFile(path)
		if err != nil {
			allValid = false
			fmt.Printf("❌ %s: %s\n", path, err)
		} else {
			fmt.Printf("✅ %s\n", path)
		}
	}

	if !allValid {
		return fmt.Errorf("not all scan results are valid")
	}
	return nil
}

func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var hwInfo types.HwInfo
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &hwInfo)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &hwInfo)
	default:
		return fmt.Errorf("unknown file type, expected .json or .yaml")
	}
	if err != nil {
		return err
	}

	return validateHwInfo(&hwInfo)
}

// validateHwInfo checks what a scan guarantees: supported types only, real ids, one boot adapter at most
func validateHwInfo(hwInfo *types.HwInfo) error {
	seen := make(map[types.PciAddress]bool)
	bootVGA := 0

	for i, device := range hwInfo.PciDevices {
		if device.GetDriver() == "" {
			return fmt.Errorf("device %d: driver not set", i)
		}

		gpu, ok := device.(*types.GPU)
		if !ok {
			return fmt.Errorf("device %d: unexpected type %s", i, device.Type())
		}
		if gpu.VendorId == 0 || gpu.DeviceId == 0 {
			return fmt.Errorf("%s: zero vendor or device id", gpu.Address)
		}
		if seen[gpu.Address] {
			return fmt.Errorf("%s: listed more than once", gpu.Address)
		}
		seen[gpu.Address] = true
		if gpu.BootVGA {
			bootVGA++
		}
	}

	if bootVGA > 1 {
		return fmt.Errorf("%d devices marked as boot vga", bootVGA)
	}
	return nil
}
