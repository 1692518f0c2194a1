package types

// HwInfo is the result of a hardware scan. Only the PCI bus is scanned for now.
type HwInfo struct {
	PciDevices DeviceList `json:"pci,omitempty" yaml:"pci"`
}
