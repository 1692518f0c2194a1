package basic

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/hardware_info"
	"github.com/jpnorenam/device-scan/pkg/types"
)

type showCommand struct {
	*common.Context

	// flags
	format  string
	refresh bool
}

func ShowCommand(ctx *common.Context) *cobra.Command {
	var cmd showCommand
	cmd.Context = ctx

	cobraCmd := &cobra.Command{
		Use:               "show-device <address>",
		Short:             "Print information about a device",
		Long:              "Print information about the device at a PCI address, such as 0000:01:00.0 or 01:00.0",
		GroupID:           groupID,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cmd.validateArgs,
		RunE:              cmd.run,
	}

	// flags
	cobraCmd.Flags().StringVar(&cmd.format, "format", formatYaml, "output format: yaml or json")
	cobraCmd.Flags().BoolVar(&cmd.refresh, "refresh", false, "scan again instead of using the last scan")

	return cobraCmd
}

func (cmd *showCommand) run(_ *cobra.Command, args []string) error {
	address, err := types.ParsePciAddress(args[0])
	if err != nil {
		return err
	}

	hwInfo, err := cmd.hwInfo()
	if err != nil {
		exitIfBusUnavailable(err)
		return fmt.Errorf("failed to get devices: %s", err)
	}

	device := hwInfo.PciDevices.Find(address)
	if device == nil {
		return fmt.Errorf("no supported device at %s\n%s", address, common.SuggestRefresh())
	}

	output, err := marshal(device, cmd.format)
	if err != nil {
		return fmt.Errorf("error printing device: %v", err)
	}
	fmt.Print(output)
	return nil
}

func (cmd *showCommand) hwInfo() (*types.HwInfo, error) {
	if !cmd.refresh {
		return cmd.Cache.GetHwInfo()
	}

	opts, err := common.ScanOptions(cmd.Config)
	if err != nil {
		return nil, err
	}
	hwInfo, err := hardware_info.Get(opts)
	if err != nil {
		return nil, err
	}
	if err := cmd.Cache.SetHwInfo(*hwInfo); err != nil {
		return nil, fmt.Errorf("error caching scan result: %v", err)
	}
	return hwInfo, nil
}

func (cmd *showCommand) validateArgs(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	hwInfo, err := cmd.Cache.GetHwInfo()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var addresses []cobra.Completion
	for _, gpu := range hwInfo.PciDevices.GPUs() {
		addresses = append(addresses, gpu.Address.String())
	}

	return addresses, cobra.ShellCompDirectiveNoFileComp
}
