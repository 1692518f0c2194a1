package config

import (
	"bytes"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpnorenam/device-scan/cmd/cli/common"
	"github.com/jpnorenam/device-scan/pkg/storage"
)

func TestValidateValue(t *testing.T) {
	assert.NoError(t, validateValue(common.ConfNames, "builtin"))
	assert.NoError(t, validateValue(common.ConfGpuProperties, "true"))
	assert.NoError(t, validateValue(common.ConfSysfsRoot, "/host/sys"))
	assert.NoError(t, validateValue(common.ConfPciIdsPath, ""))

	assert.Error(t, validateValue(common.ConfNames, "hwdb"))
	assert.Error(t, validateValue(common.ConfGpuProperties, "maybe"))
	assert.Error(t, validateValue(common.ConfSysfsRoot, ""))
}

func TestSetValue(t *testing.T) {
	cmd := setCommand{
		Context: &common.Context{Config: storage.NewStaticConfig(common.DefaultConfig)},
	}

	assert.Error(t, cmd.setValue("=auto"))
	assert.Error(t, cmd.setValue("scan.names"))
	assert.Error(t, cmd.setValue("scan.names=hwdb"))
	// Static configurations are read-only
	assert.Error(t, cmd.setValue("scan.names=none"))
}

func TestGetValue(t *testing.T) {
	cmd := getCommand{
		Context: &common.Context{Config: storage.NewStaticConfig(common.DefaultConfig)},
	}

	t.Run("single", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, cmd.print(&out, common.ConfNames))
		assert.Equal(t, "auto\n", out.String())
	})

	t.Run("group", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, cmd.print(&out, "scan"))
		assert.Equal(t, `scan.gpu-properties="false"
scan.names="auto"
scan.pci-ids-path=""
scan.sysfs-root="/sys"
`, out.String())
	})

	t.Run("all", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, cmd.print(&out, ""))
		assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), len(common.DefaultConfig))
	})

	t.Run("unknown", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, cmd.print(&out, "model"))
		assert.Empty(t, out.String())
	})
}

func TestGetOutputReadsBack(t *testing.T) {
	values := maps.Clone(common.DefaultConfig)
	values[common.ConfPciIdsPath] = `/opt/ids/"v2"\pci.ids`
	cmd := getCommand{
		Context: &common.Context{Config: storage.NewStaticConfig(values)},
	}

	var out bytes.Buffer
	require.NoError(t, cmd.print(&out, "scan"))
	path := filepath.Join(t.TempDir(), "device-scan.conf")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0644))

	readBack, err := storage.NewFileConfig(path, nil)
	require.NoError(t, err)
	all, err := readBack.GetAll()
	require.NoError(t, err)
	assert.Equal(t, values, all)
}
