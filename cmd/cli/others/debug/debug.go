package debug

import (
	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
)

func DebugCommand(ctx *common.Context) *cobra.Command {
	debugCmd := &cobra.Command{
		Use:    "debug",
		Long:   "Developer/debugging commands",
		Hidden: true,
	}

	debugCmd.AddCommand(
		ValidateCommand(ctx),
		BootVGACommand(ctx),
	)

	return debugCmd
}
