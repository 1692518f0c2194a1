package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DeviceType is the domain-level category of a scanned device. The PCI classifier is the only producer of
// DeviceType values, and every value it emits has a matching record shape.
type DeviceType int

const (
	DeviceTypeUnknown DeviceType = iota
	DeviceTypeGPU
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeUnknown: "unknown",
	DeviceTypeGPU:     "gpu",
}

func (t DeviceType) String() string {
	if name, found := deviceTypeNames[t]; found {
		return name
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

func (t DeviceType) MarshalText() ([]byte, error) {
	name, found := deviceTypeNames[t]
	if !found {
		return nil, fmt.Errorf("unknown device type %d", int(t))
	}
	return []byte(name), nil
}

func (t *DeviceType) UnmarshalText(text []byte) error {
	for k, v := range deviceTypeNames {
		if v == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown device type %q", text)
}

func (t DeviceType) MarshalYAML() (interface{}, error) {
	text, err := t.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func (t *DeviceType) UnmarshalYAML(value *yaml.Node) error {
	return t.UnmarshalText([]byte(value.Value))
}

// Device is implemented by every device record. Generic code can walk a DeviceList through this interface
// without knowing the concrete record shape; type-specific fields need a type switch on the record.
type Device interface {
	Type() DeviceType
	GetModalias() string
	GetName() string
	GetPath() string
	GetVendor() string
	GetDriver() string
}

var (
	_ Device = (*BaseDevice)(nil)
	_ Device = (*GPU)(nil)
)

// BaseDevice holds the fields shared by all device types.
// Optional text fields are nil when they could not be resolved.
type BaseDevice struct {
	DeviceType DeviceType `json:"type" yaml:"type"`
	Modalias   *string    `json:"modalias,omitempty" yaml:"modalias,omitempty"`
	Name       *string    `json:"name,omitempty" yaml:"name,omitempty"`
	Path       *string    `json:"path,omitempty" yaml:"path,omitempty"`
	Vendor     *string    `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	// Kernel driver bound to the device, or "unknown"
	Driver string `json:"driver" yaml:"driver"`
}

func (d *BaseDevice) Type() DeviceType {
	if d == nil {
		return DeviceTypeUnknown
	}
	return d.DeviceType
}

func (d *BaseDevice) GetModalias() string {
	if d == nil {
		return ""
	}
	return deref(d.Modalias)
}

func (d *BaseDevice) GetName() string {
	if d == nil {
		return ""
	}
	return deref(d.Name)
}

func (d *BaseDevice) GetPath() string {
	if d == nil {
		return ""
	}
	return deref(d.Path)
}

func (d *BaseDevice) GetVendor() string {
	if d == nil {
		return ""
	}
	return deref(d.Vendor)
}

func (d *BaseDevice) GetDriver() string {
	if d == nil {
		return ""
	}
	return d.Driver
}

// GPU is a display controller: VGA compatible, XGA or 3D.
type GPU struct {
	BaseDevice `yaml:",inline"`

	Address  PciAddress `json:"address" yaml:"address"`
	VendorId HexInt     `json:"vendor-id" yaml:"vendor-id"`
	DeviceId HexInt     `json:"device-id" yaml:"device-id"`
	// BootVGA is set on the adapter the firmware used as primary display at boot
	BootVGA bool `json:"boot-vga" yaml:"boot-vga"`

	// Vendor specific properties such as vram, only collected on request
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
