package config

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/storage"
)

type getCommand struct {
	*common.Context
}

func GetCommand(ctx *common.Context) *cobra.Command {
	var cmd getCommand
	cmd.Context = ctx

	cobraCmd := &cobra.Command{
		Use:               "get [<key>]",
		Short:             "Print configurations",
		Long:              "Print a configuration value, or every value below a key such as \"scan\"",
		GroupID:           groupID,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: validKeys,
		RunE:              cmd.run,
	}

	return cobraCmd
}

func (cmd *getCommand) run(cobraCmd *cobra.Command, args []string) error {
	key := ""
	if len(args) == 1 {
		key = args[0]
	}
	return cmd.print(cobraCmd.OutOrStdout(), key)
}

// print writes a single value on its own, and anything else as sorted key="value" lines
func (cmd *getCommand) print(w io.Writer, key string) error {
	var values map[string]any
	var err error
	if key == "" {
		values, err = cmd.Config.GetAll()
	} else {
		values, err = cmd.Config.Get(key)
	}
	if err != nil {
		return fmt.Errorf("error getting configurations: %w", err)
	}

	if key != "" && len(values) == 0 {
		return fmt.Errorf("no value set for key %q", key)
	}

	if val, found := storage.StringValue(values, key); found && len(values) == 1 {
		_, err = fmt.Fprintln(w, val)
		return err
	}

	for _, k := range slices.Sorted(maps.Keys(values)) {
		val, _ := storage.StringValue(values, k)
		if _, err := fmt.Fprintf(w, "%s=%q\n", k, val); err != nil {
			return err
		}
	}
	return nil
}
