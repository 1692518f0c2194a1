package debug

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpnorenam/device-scan/pkg/utils"
)

func TestValidateFixtures(t *testing.T) {
	machines, err := utils.SubDirectories("../../../../test_data/machines")
	if err != nil {
		t.Fatal(err)
	}

	for _, machine := range machines {
		t.Run(machine, func(t *testing.T) {
			err := validateFile("../../../../test_data/machines/" + machine + "/hardware-info.json")
			assert.NoError(t, err)
		})
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		file    string
		content string
		valid   bool
	}{
		"yaml": {
			file:    "ok.yaml",
			content: "pci:\n  - type: gpu\n    driver: i915\n    address: {domain: 0, bus: 0, device: 2, function: 0}\n    vendor-id: 0x8086\n    device-id: 0x9b41\n    boot-vga: true\n",
			valid:   true,
		},
		"zero id": {
			file:    "zero.json",
			content: `{"pci": [{"type": "gpu", "driver": "unknown", "vendor-id": "0x8086", "device-id": "0x0000"}]}`,
		},
		"two boot adapters": {
			file: "boot.json",
			content: `{"pci": [
				{"type": "gpu", "driver": "i915", "address": {"bus": 0}, "vendor-id": "0x8086", "device-id": "0x9b41", "boot-vga": true},
				{"type": "gpu", "driver": "nvidia", "address": {"bus": 1}, "vendor-id": "0x10de", "device-id": "0x1b06", "boot-vga": true}
			]}`,
		},
		"unknown type": {
			file:    "npu.json",
			content: `{"pci": [{"type": "npu", "driver": "intel_vpu"}]}`,
		},
		"untyped record": {
			file:    "base.json",
			content: `{"pci": [{"type": "unknown", "driver": "ahci"}]}`,
		},
		"extension": {
			file:    "scan.txt",
			content: `{"pci": []}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := dir + "/" + test.file
			writeFile(t, path, test.content)
			err := validateFile(path)
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
