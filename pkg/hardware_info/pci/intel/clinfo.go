package intel

// Clinfo is the subset of `clinfo --json` that is used to look up device properties
type Clinfo struct {
	Platforms []ClinfoPlatform `json:"platforms"`
	// One entry per platform, in the same order as Platforms
	Devices []ClinfoPlatformDevices `json:"devices"`
}

type ClinfoPlatform struct {
	ClPlatformName    string `json:"CL_PLATFORM_NAME"`
	ClPlatformVendor  string `json:"CL_PLATFORM_VENDOR"`
	ClPlatformVersion string `json:"CL_PLATFORM_VERSION"`
}

type ClinfoPlatformDevices struct {
	Online []ClinfoDevice `json:"online"`
}

type ClinfoDevice struct {
	ClDeviceName          string `json:"CL_DEVICE_NAME"`
	ClDeviceVendorId      uint32 `json:"CL_DEVICE_VENDOR_ID"`
	ClDeviceGlobalMemSize uint64 `json:"CL_DEVICE_GLOBAL_MEM_SIZE"`
	ClDevicePciBusInfoKhr string `json:"CL_DEVICE_PCI_BUS_INFO_KHR"`
}
