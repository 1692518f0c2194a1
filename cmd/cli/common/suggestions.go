package common

import (
	"fmt"

	"github.com/canonical/go-snapctl/env"
)

func instanceName() string {
	instanceName := env.SnapInstanceName()
	if instanceName == "" { // not a snap
		instanceName = "<snap-instance-name>"
	}
	return instanceName
}

// SuggestHardwareObserve is shown when the bus or sysfs can not be read from inside the snap
func SuggestHardwareObserve() string {
	return fmt.Sprintf("Run \"sudo snap connect %s:hardware-observe\" to allow access to the PCI bus.", instanceName())
}

func SuggestRefresh() string {
	return fmt.Sprintf("Run \"%s scan\" to scan the PCI bus again.", instanceName())
}
