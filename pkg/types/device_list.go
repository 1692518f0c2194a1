package types

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DeviceList is an ordered collection of device records. The order is the order in which the bus reported the
// devices; nothing is sorted or deduplicated.
type DeviceList []Device

// GPUs returns the GPU records in scan order
func (l DeviceList) GPUs() []*GPU {
	var gpus []*GPU
	for _, device := range l {
		if gpu, ok := device.(*GPU); ok {
			gpus = append(gpus, gpu)
		}
	}
	return gpus
}

// BootVGA returns the GPU the firmware used as primary display, or nil if there is none
func (l DeviceList) BootVGA() *GPU {
	for _, gpu := range l.GPUs() {
		if gpu.BootVGA {
			return gpu
		}
	}
	return nil
}

// Find returns the device at the given bus address. Only records that carry an address can match.
func (l DeviceList) Find(address PciAddress) Device {
	for _, device := range l {
		switch d := device.(type) {
		case *GPU:
			if d.Address == address {
				return d
			}
		}
	}
	return nil
}

// UnmarshalJSON decodes each element into the record shape selected by its type field
func (l *DeviceList) UnmarshalJSON(data []byte) error {
	var rawDevices []json.RawMessage
	if err := json.Unmarshal(data, &rawDevices); err != nil {
		return err
	}

	devices := make(DeviceList, 0, len(rawDevices))
	for i, rawDevice := range rawDevices {
		var tag struct {
			Type DeviceType `json:"type"`
		}
		if err := json.Unmarshal(rawDevice, &tag); err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}

		device, err := newRecord(tag.Type)
		if err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
		if err := json.Unmarshal(rawDevice, device); err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
		devices = append(devices, device)
	}

	*l = devices
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON
func (l *DeviceList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of devices", value.Line)
	}

	devices := make(DeviceList, 0, len(value.Content))
	for i, node := range value.Content {
		var tag struct {
			Type DeviceType `yaml:"type"`
		}
		if err := node.Decode(&tag); err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}

		device, err := newRecord(tag.Type)
		if err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
		if err := node.Decode(device); err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
		devices = append(devices, device)
	}

	*l = devices
	return nil
}

// newRecord returns an empty record of the shape that belongs to the device type
func newRecord(deviceType DeviceType) (Device, error) {
	switch deviceType {
	case DeviceTypeGPU:
		return &GPU{}, nil
	case DeviceTypeUnknown:
		return &BaseDevice{}, nil
	default:
		return nil, fmt.Errorf("unsupported type %v", deviceType)
	}
}
