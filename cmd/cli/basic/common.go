package basic

import (
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci"
)

const groupID = "basic"

// Output formats
const (
	formatTable = "table"
	formatYaml  = "yaml"
	formatJson  = "json"
)

func Group(title string) *cobra.Group {
	return &cobra.Group{
		ID:    groupID,
		Title: title,
	}
}

// marshal renders v in a structured output format. The result ends with a newline.
func marshal(v any, format string) (string, error) {
	switch format {
	case formatJson:
		jsonString, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal to JSON: %s", err)
		}
		return string(jsonString) + "\n", nil
	case formatYaml:
		yamlString, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal to YAML: %s", err)
		}
		return string(yamlString), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// exitIfBusUnavailable ends the process if the bus could not be opened. There is nothing to retry.
func exitIfBusUnavailable(err error) {
	if errors.Is(err, pci.ErrBusUnavailable) {
		log.Fatalf("%v\n%s", err, common.SuggestHardwareObserve())
	}
}
