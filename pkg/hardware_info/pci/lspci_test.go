package pci

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpnorenam/device-scan/pkg/types"
	"github.com/jpnorenam/device-scan/pkg/utils"
)

func TestParseLsPci(t *testing.T) {
	machines, err := utils.SubDirectories("../../../test_data/machines")
	if err != nil {
		t.Fatal(err)
	}

	for _, machine := range machines {
		lsPciFile := "../../../test_data/machines/" + machine + "/lspci.txt"
		t.Run(machine, func(t *testing.T) {
			_, err := os.Stat(lsPciFile)
			if err != nil {
				if os.IsNotExist(err) {
					// Device does not have lspci test data, skipping
					return
				} else {
					t.Fatal(err)
				}
			}

			lsPci, err := os.ReadFile(lsPciFile)
			if err != nil {
				t.Fatal(err)
			}

			descriptors, err := ParseLsPci(string(lsPci))
			if err != nil {
				t.Fatal(err)
			}
			if len(descriptors) == 0 {
				t.Fatal("no devices parsed")
			}
		})
	}
}

func TestParseLsPciRecord(t *testing.T) {
	lsPci := `Slot:	0000:00:02.0
Class:	0300
Vendor:	8086
Device:	3ea0
SVendor:	1028
SDevice:	08e1
Rev:	02

Slot:	01:00.0
Class:	Ethernet controller [0200]
Vendor:	Intel Corporation [8086]
Device:	Ethernet Controller I225-V [15f3]
Rev:	03
`
	descriptors, err := ParseLsPci(lsPci)
	require.NoError(t, err)
	assert.Equal(t, []Descriptor{
		{Address: types.PciAddress{Device: 2}, VendorId: 0x8086, DeviceId: 0x3ea0, Class: ClassDisplayVGA},
		{Address: types.PciAddress{Bus: 1}, VendorId: 0x8086, DeviceId: 0x15f3, Class: ClassNetworkEthernet},
	}, descriptors)
}

func TestParseLsPciInvalid(t *testing.T) {
	tests := map[string]string{
		"no slot":       "Class:\t0300\nVendor:\t8086\nDevice:\t3ea0\n",
		"bad slot":      "Slot:\tnot-a-slot\nClass:\t0300\nVendor:\t8086\nDevice:\t3ea0\n",
		"missing class": "Slot:\t00:02.0\nVendor:\t8086\nDevice:\t3ea0\n",
		"bad vendor":    "Slot:\t00:02.0\nClass:\t0300\nVendor:\tIntel\nDevice:\t3ea0\n",
		"no separator":  "Slot 00:02.0\n",
	}

	for name, lsPci := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLsPci(lsPci)
			assert.Error(t, err)
		})
	}
}

func TestRawBus(t *testing.T) {
	lsPci := "Slot:\t00:02.0\nClass:\t0300\nVendor:\t8086\nDevice:\t3ea0\n\nSlot:\t00:1f.6\nClass:\t0200\nVendor:\t8086\nDevice:\t15bb\n"

	devices, err := NewScanner(NewRawBus(lsPci), WithAttributes(stubAttributes{})).Scan()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, types.PciAddress{Device: 2}, devices.GPUs()[0].Address)

	session, err := NewRawBus(lsPci).Open()
	require.NoError(t, err)
	require.NoError(t, session.Close())
	_, err = session.Scan()
	assert.Error(t, err)
}
