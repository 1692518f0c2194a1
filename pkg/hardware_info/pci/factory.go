package pci

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci/intel"
	"github.com/jpnorenam/device-scan/pkg/hardware_info/pci/nvidia"
	"github.com/jpnorenam/device-scan/pkg/types"
)

const (
	VendorIntel  uint16 = 0x8086
	VendorNvidia uint16 = 0x10de
)

// PropertyProbe looks up vendor specific properties of a GPU
type PropertyProbe func(addr types.PciAddress) (map[string]string, error)

// DefaultPropertyProbes maps vendor ids to the probe for their GPUs
var DefaultPropertyProbes = map[uint16]PropertyProbe{
	VendorIntel:  intel.GpuProperties,
	VendorNvidia: nvidia.GpuProperties,
}

// newDevice builds the device record for an already classified descriptor. Every type Classify can return must
// have a branch here, so an unhandled type is a programming error.
func (s *Scanner) newDevice(deviceType types.DeviceType, descriptor Descriptor) types.Device {
	base := types.BaseDevice{
		DeviceType: deviceType,
		Driver:     s.attributes.Driver(descriptor.Address),
		Modalias:   s.attributes.Modalias(descriptor.Address),
		Path:       s.attributes.Path(descriptor.Address),
	}
	if name, found := s.names.DeviceName(descriptor.VendorId, descriptor.DeviceId); found {
		base.Name = &name
	}
	if vendor, found := s.names.VendorName(descriptor.VendorId); found {
		base.Vendor = &vendor
	}

	switch deviceType {
	case types.DeviceTypeGPU:
		gpu := &types.GPU{
			BaseDevice: base,
			Address:    descriptor.Address,
			VendorId:   types.HexInt(descriptor.VendorId),
			DeviceId:   types.HexInt(descriptor.DeviceId),
			BootVGA:    s.attributes.BootVGA(descriptor.Address),
		}
		if s.gpuProperties {
			gpu.Properties = s.probeProperties(descriptor)
		}
		return gpu
	case types.DeviceTypeUnknown:
		return &base
	default:
		panic(fmt.Sprintf("no construction path for device type %s", deviceType))
	}
}

// probeProperties runs the vendor probe if there is one. A failing probe is logged and leaves the properties empty.
func (s *Scanner) probeProperties(descriptor Descriptor) map[string]string {
	probe, found := s.probes[descriptor.VendorId]
	if !found {
		return nil
	}
	properties, err := probe(descriptor.Address)
	if err != nil {
		log.Warnf("Can't look up properties of GPU %s: %v", descriptor.Address, err)
		return nil
	}
	if len(properties) == 0 {
		return nil
	}
	return properties
}
