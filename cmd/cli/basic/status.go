package basic

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci"
	"github.com/jpnorenam/device-scan/pkg/types"
	"github.com/jpnorenam/device-scan/pkg/utils"
)

type statusCommand struct {
	*common.Context

	// flags
	format string
}

func StatusCommand(ctx *common.Context) *cobra.Command {
	var cmd statusCommand
	cmd.Context = ctx

	cobraCmd := &cobra.Command{
		Use:               "status",
		Short:             "Show the status",
		Long:              "Show a summary of the GPUs found by the last scan",
		GroupID:           groupID,
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE:              cmd.run,
	}

	// flags
	cobraCmd.Flags().StringVar(&cmd.format, "format", formatYaml, "output format: yaml or json")

	return cobraCmd
}

func (cmd *statusCommand) run(_ *cobra.Command, _ []string) error {
	var hwInfo *types.HwInfo
	var err error

	stopProgress := common.StartProgressSpinner("Getting status")
	hwInfo, err = cmd.Cache.GetHwInfo()
	stopProgress()
	if err != nil {
		exitIfBusUnavailable(err)
		return fmt.Errorf("error getting status: %v", err)
	}

	statusText, err := marshal(statusStruct(hwInfo), cmd.format)
	if err != nil {
		return err
	}

	fmt.Print(statusText)

	return nil
}

type Status struct {
	Gpus    int               `json:"gpus" yaml:"gpus"`
	BootVGA string            `json:"boot-vga,omitempty" yaml:"boot-vga,omitempty"`
	Drivers map[string]string `json:"drivers" yaml:"drivers"`
	// Devices without a bound kernel driver
	Unbound []string `json:"unbound,omitempty" yaml:"unbound,omitempty"`
	// Only known when the scan looked up GPU properties
	Vram map[string]string `json:"vram,omitempty" yaml:"vram,omitempty"`
}

func statusStruct(hwInfo *types.HwInfo) *Status {
	status := Status{
		Drivers: make(map[string]string),
	}

	for _, gpu := range hwInfo.PciDevices.GPUs() {
		status.Gpus++
		address := gpu.Address.String()
		status.Drivers[address] = gpu.GetDriver()
		if gpu.GetDriver() == pci.UnknownDriver {
			status.Unbound = append(status.Unbound, address)
		}
		if vram, err := strconv.ParseUint(gpu.Properties["vram"], 10, 64); err == nil {
			if status.Vram == nil {
				status.Vram = make(map[string]string)
			}
			status.Vram[address] = utils.FmtBytes(vram)
		}
	}

	if bootVGA := hwInfo.PciDevices.BootVGA(); bootVGA != nil {
		status.BootVGA = bootVGA.Address.String()
	}

	return &status
}
