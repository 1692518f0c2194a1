package main

import (
	"os"

	"github.com/canonical/go-snapctl/env"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/basic"
	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/cmd/cli/config"
	"github.com/jpnorenam/device-scan/cmd/cli/others/debug"
	"github.com/jpnorenam/device-scan/pkg/hardware_info"
	"github.com/jpnorenam/device-scan/pkg/storage"
	"github.com/jpnorenam/device-scan/pkg/types"
)

func main() {
	ctx := &common.Context{}

	// The config can be replaced by --config, so the loader looks it up at scan time
	ctx.Cache = storage.NewCache(func() (*types.HwInfo, error) {
		opts, err := common.ScanOptions(ctx.Config)
		if err != nil {
			return nil, err
		}
		return hardware_info.Get(opts)
	})

	if env.Snap() != "" {
		ctx.Config = storage.NewConfig()
	} else {
		ctx.Config = storage.NewStaticConfig(common.DefaultConfig)
	}

	// Get snap name for dynamic commands
	instanceName := env.SnapInstanceName()
	if instanceName == "" {
		instanceName = "device-scan"
	}

	var configFile string

	// rootCmd is the base command
	// It gets populated with subcommands
	rootCmd := &cobra.Command{
		SilenceUsage: true,
		Long: instanceName + " scans the PCI bus for GPUs and reports their driver, ids,\n" +
			"and whether the firmware used them as boot display adapter.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRunE(ctx, configFile)
		},
		Use: instanceName,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&ctx.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "read configurations from a key=\"value\" file instead of the snap configuration")

	// Disable command sorting to keep commands sorted as added below
	cobra.EnableCommandSorting = false

	rootCmd.AddGroup(basic.Group("Basic Commands:"))
	rootCmd.AddCommand(
		basic.ScanCommand(ctx),
		basic.ShowCommand(ctx),
		basic.StatusCommand(ctx),
	)

	rootCmd.AddGroup(config.Group("Configuration Commands:"))
	rootCmd.AddCommand(
		config.GetCommand(ctx),
		config.SetCommand(ctx),
	)

	// other commands (help is added by default)
	rootCmd.AddCommand(
		debug.DebugCommand(ctx),
	)

	// disable logging timestamps
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.WarnLevel)

	// Hide the 'completion' command from help text
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func persistentPreRunE(ctx *common.Context, configFile string) error {
	if ctx.Verbose {
		log.SetLevel(log.DebugLevel)
		log.Debug("Verbose output enabled globally.")
	}

	if configFile != "" {
		cfg, err := storage.NewFileConfig(configFile, common.DefaultConfig)
		if err != nil {
			return err
		}
		ctx.Config = cfg
	}
	return nil
}
