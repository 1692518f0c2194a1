package pci

import "github.com/jpnorenam/device-scan/pkg/types"

// Class codes as defined in include/linux/pci_ids.h
const (
	ClassNetworkEthernet uint16 = 0x0200
	ClassDisplayVGA      uint16 = 0x0300
	ClassDisplayXGA      uint16 = 0x0301
	ClassDisplay3D       uint16 = 0x0302
	ClassDisplayOther    uint16 = 0x0380
)

// Classify maps a class code to a device type. Display controllers from VGA up to 3D are GPUs, everything else
// is Unknown. Adding a device type means adding a branch here and a construction path in newDevice.
func Classify(class uint16) types.DeviceType {
	if class >= ClassDisplayVGA && class <= ClassDisplay3D {
		return types.DeviceTypeGPU
	}
	return types.DeviceTypeUnknown
}

// placeholder reports entries with a zero vendor or device id. These are skipped regardless of class.
func placeholder(descriptor Descriptor) bool {
	return descriptor.VendorId == 0 || descriptor.DeviceId == 0
}
