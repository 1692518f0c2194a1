package basic

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/hardware_info"
	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci"
	"github.com/jpnorenam/device-scan/pkg/types"
	"github.com/jpnorenam/device-scan/pkg/utils"
)

type scanCommand struct {
	*common.Context

	// flags
	format        string
	fromLsPci     string
	names         string
	gpuProperties bool
	sysfsRoot     string
}

func ScanCommand(ctx *common.Context) *cobra.Command {
	var cmd scanCommand
	cmd.Context = ctx

	cobraCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the PCI bus for GPUs",
		Long: "Scan the PCI bus and print the supported devices in the order the bus reports them.\n" +
			"Devices of other classes are left out.",
		GroupID:           groupID,
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE:              cmd.run,
	}

	// flags
	cobraCmd.Flags().StringVar(&cmd.format, "format", formatTable, "output format: table, yaml or json")
	cobraCmd.Flags().StringVar(&cmd.fromLsPci, "from-lspci", "", "read devices from the output of \"lspci -vmmnD\" instead of the bus")
	cobraCmd.Flags().StringVar(&cmd.names, "names", "", "name source: auto, pci.ids, builtin or none (overrides "+common.ConfNames+")")
	cobraCmd.Flags().BoolVar(&cmd.gpuProperties, "gpu-properties", false, "look up vendor specific GPU properties such as vRAM (overrides "+common.ConfGpuProperties+")")
	cobraCmd.Flags().StringVar(&cmd.sysfsRoot, "sysfs-root", "", "mount point of sysfs, or a copy of the sysfs of the machine given with --from-lspci (overrides "+common.ConfSysfsRoot+")")

	return cobraCmd
}

func (cmd *scanCommand) run(cobraCmd *cobra.Command, _ []string) error {
	opts, err := common.ScanOptions(cmd.Config)
	if err != nil {
		return err
	}
	if cobraCmd.Flags().Changed("names") {
		opts.NamesSource = cmd.names
		opts.FriendlyNames = cmd.names != pci.NamesNone
	}
	if cobraCmd.Flags().Changed("gpu-properties") {
		opts.GpuProperties = cmd.gpuProperties
	}
	if cobraCmd.Flags().Changed("sysfs-root") {
		opts.SysfsRoot = cmd.sysfsRoot
	} else if cmd.fromLsPci != "" {
		// The configured sysfs belongs to this host, not to the machine the lspci data came from
		opts.SysfsRoot = ""
		log.Debugf("No --sysfs-root for %s, drivers and boot VGA are not resolved", cmd.fromLsPci)
	}

	log.Debugf("Scan options: %s", utils.FmtPretty(opts))

	hwInfo, err := cmd.scan(opts)
	if err != nil {
		exitIfBusUnavailable(err)
		return fmt.Errorf("failed to scan: %s", err)
	}

	// Offline scans describe some other machine
	if cmd.fromLsPci == "" {
		if err := cmd.Cache.SetHwInfo(*hwInfo); err != nil {
			return fmt.Errorf("error caching scan result: %v", err)
		}
	}

	if cmd.format == formatTable {
		return printDevicesTable(os.Stdout, hwInfo.PciDevices)
	}

	output, err := marshal(hwInfo, cmd.format)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

func (cmd *scanCommand) scan(opts pci.Options) (*types.HwInfo, error) {
	stopProgress := common.StartProgressSpinner("Scanning")
	defer stopProgress()

	if cmd.fromLsPci != "" {
		lsPci, err := os.ReadFile(cmd.fromLsPci)
		if err != nil {
			return nil, fmt.Errorf("error reading lspci data: %v", err)
		}
		pciDevices, err := pci.DevicesFromRawData(string(lsPci), opts)
		if err != nil {
			return nil, err
		}
		return &types.HwInfo{PciDevices: pciDevices}, nil
	}

	return hardware_info.Get(opts)
}
