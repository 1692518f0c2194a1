package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/storage"
	"github.com/jpnorenam/device-scan/pkg/utils"
)

type setCommand struct {
	*common.Context

	// flags
	packageConfig bool
}

func SetCommand(ctx *common.Context) *cobra.Command {
	var cmd setCommand
	cmd.Context = ctx

	cobraCmd := &cobra.Command{
		Use:               "set <key=value>",
		Short:             "Set configurations",
		Long:              "Set a configuration",
		GroupID:           groupID,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: validKeys,
		RunE:              cmd.run,
	}

	// flags
	// The install hook sets the defaults with --package
	cobraCmd.Flags().BoolVar(&cmd.packageConfig, "package", false, "set package configurations")
	err := cobraCmd.Flags().MarkHidden("package")
	if err != nil {
		panic(err)
	}

	return cobraCmd
}

func (cmd *setCommand) run(_ *cobra.Command, args []string) error {
	if !utils.IsRootUser() {
		return common.ErrPermissionDenied
	}
	return cmd.setValue(args[0])
}

func (cmd *setCommand) setValue(keyValue string) error {
	if keyValue == "" || keyValue[0] == '=' {
		return fmt.Errorf("key must not start with an equal sign")
	}

	// The value itself can contain an equal sign, so we split only on the first occurrence
	key, value, found := strings.Cut(keyValue, "=")
	if !found {
		return fmt.Errorf("expected key=value, got %q", keyValue)
	}

	if err := validateValue(key, value); err != nil {
		return err
	}

	confType := storage.UserConfig
	if cmd.packageConfig {
		confType = storage.PackageConfig
	}
	err := cmd.Config.Set(key, value, confType)
	if err != nil {
		return fmt.Errorf("error setting value %q for %q: %v", value, key, err)
	}

	return nil
}
