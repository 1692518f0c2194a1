package debug

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/types"
)

type bootVGACommand struct {
	*common.Context
}

func BootVGACommand(ctx *common.Context) *cobra.Command {
	var cmd bootVGACommand
	cmd.Context = ctx

	cobraCmd := &cobra.Command{
		Use:               "boot-vga",
		Short:             "Test which GPU is reported as boot display adapter",
		Long:              "Test which GPU is reported as boot display adapter, given a scan result in yaml piped in via stdin",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE:              cmd.run,
	}

	return cobraCmd
}

func (cmd *bootVGACommand) run(_ *cobra.Command, _ []string) error {
	// Read yaml piped in from "scan --format yaml"
	var hwInfo types.HwInfo

	err := yaml.NewDecoder(os.Stdin).Decode(&hwInfo)
	if err != nil {
		return fmt.Errorf("error decoding hardware info: %s", err)
	}

	// Print summary on STDERR
	for _, gpu := range hwInfo.PciDevices.GPUs() {
		if gpu.BootVGA {
			fmt.Fprintf(os.Stderr, "✅ %s - boot vga, driver = %s\n", gpu.Address, gpu.GetDriver())
		} else {
			fmt.Fprintf(os.Stderr, "🟠 %s - driver = %s\n", gpu.Address, gpu.GetDriver())
		}
	}

	bootVGA := hwInfo.PciDevices.BootVGA()
	if bootVGA == nil {
		return fmt.Errorf("no boot vga device")
	}

	greenBold := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintln(os.Stderr, greenBold("Boot display adapter: "+bootVGA.Address.String()))

	fmt.Println(bootVGA.Address)
	return nil
}
