package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpnorenam/device-scan/pkg/types"
)

const clinfoArcA580 = `{
  "platforms": [
    { "CL_PLATFORM_NAME": "Intel(R) OpenCL Graphics", "CL_PLATFORM_VENDOR": "Intel(R) Corporation", "CL_PLATFORM_VERSION": "OpenCL 3.0 " }
  ],
  "devices": [
    {
      "online": [
        {
          "CL_DEVICE_NAME": "Intel(R) Arc(TM) A580 Graphics",
          "CL_DEVICE_VENDOR_ID": 32902,
          "CL_DEVICE_GLOBAL_MEM_SIZE": 8096681984,
          "CL_DEVICE_PCI_BUS_INFO_KHR": "PCI-E, 0000:03:00.0"
        }
      ]
    }
  ]
}`

func TestVRamFromClinfo(t *testing.T) {
	vram, err := vRamFromClinfo([]byte(clinfoArcA580), types.PciAddress{Bus: 3})
	require.NoError(t, err)
	require.NotNil(t, vram)
	assert.Equal(t, uint64(8096681984), *vram)

	// A device clinfo does not know about has no vram
	vram, err = vRamFromClinfo([]byte(clinfoArcA580), types.PciAddress{Device: 2})
	require.NoError(t, err)
	assert.Nil(t, vram)
}

func TestVRamFromClinfoErrors(t *testing.T) {
	_, err := vRamFromClinfo([]byte(`{"devices": []}`), types.PciAddress{})
	assert.Error(t, err)

	_, err = vRamFromClinfo([]byte(`not json`), types.PciAddress{})
	assert.Error(t, err)
}
