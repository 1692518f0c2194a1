package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nestedStorage keeps documents the way snapctl does: dot-separated keys address nested objects
type nestedStorage struct {
	root map[string]any
}

func newNestedStorage() *nestedStorage {
	return &nestedStorage{root: map[string]any{}}
}

func (s *nestedStorage) parent(key string, create bool) (map[string]any, string) {
	parts := strings.Split(key, ".")
	m := s.root
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			if !create {
				return nil, ""
			}
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	return m, parts[len(parts)-1]
}

func (s *nestedStorage) Set(key, value string) error {
	m, last := s.parent(key, true)
	m[last] = value
	return nil
}

func (s *nestedStorage) SetDocument(key string, value any) error {
	// Normalise through JSON like snapctl does
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	m, last := s.parent(key, true)
	m[last] = v
	return nil
}

func (s *nestedStorage) Get(key string) (map[string]any, error) {
	m, last := s.parent(key, false)
	if m == nil {
		return nil, ErrorNotFound
	}
	v, found := m[last]
	if !found {
		return nil, ErrorNotFound
	}
	if obj, ok := v.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{key: v}, nil
}

func (s *nestedStorage) Unset(key string) error {
	m, last := s.parent(key, false)
	if m != nil {
		delete(m, last)
	}
	return nil
}

func TestConfigPrecedence(t *testing.T) {
	c := &snapConfig{storage: newNestedStorage()}

	require.NoError(t, c.Set("scan.names", "auto", PackageConfig))
	require.NoError(t, c.Set("scan.sysfs-root", "/sys", PackageConfig))

	value, err := c.Get("scan.names")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scan.names": "auto"}, value)

	require.NoError(t, c.Set("scan.names", "builtin", UserConfig))
	value, err = c.Get("scan.names")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scan.names": "builtin"}, value)

	all, err := c.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scan.names": "builtin", "scan.sysfs-root": "/sys"}, all)

	// Prefix matches only on key boundaries
	value, err = c.Get("scan")
	require.NoError(t, err)
	assert.Len(t, value, 2)
	value, err = c.Get("sca")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, c.Unset("scan.names", UserConfig))
	value, err = c.Get("scan.names")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scan.names": "auto"}, value)
}

func TestConfigRejectsUnknownUserKey(t *testing.T) {
	c := &snapConfig{storage: newNestedStorage()}
	require.NoError(t, c.Set("scan.names", "auto", PackageConfig))

	err := c.Set("scan.name", "none", UserConfig)
	assert.Error(t, err)
}

func TestConfigEmpty(t *testing.T) {
	c := &snapConfig{storage: newNestedStorage()}

	all, err := c.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestConfigSetDocument(t *testing.T) {
	c := &snapConfig{storage: newNestedStorage()}
	require.NoError(t, c.SetDocument("scan", map[string]any{"names": "auto", "gpu-properties": "false"}, PackageConfig))

	all, err := c.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scan.names": "auto", "scan.gpu-properties": "false"}, all)
}

func TestFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device-scan.conf")
	content := `# local overrides
scan.names="none"

scan.sysfs-root = "/host/sys"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := NewFileConfig(path, map[string]any{"scan.names": "auto", "scan.gpu-properties": "false"})
	require.NoError(t, err)

	all, err := c.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"scan.names":          "none",
		"scan.sysfs-root":     "/host/sys",
		"scan.gpu-properties": "false",
	}, all)

	assert.Error(t, c.Set("scan.names", "auto", UserConfig))
}

func TestFileConfigQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device-scan.conf")
	content := `scan.pci-ids-path="/opt/ids/\"v2\"\\pci.ids"
scan.sysfs-root=/host/sys
scan.names=""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := NewFileConfig(path, nil)
	require.NoError(t, err)
	all, err := c.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"scan.pci-ids-path": `/opt/ids/"v2"\pci.ids`,
		"scan.sysfs-root":   "/host/sys",
		"scan.names":        "",
	}, all)
}

func TestFileConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device-scan.conf")
	require.NoError(t, os.WriteFile(path, []byte("scan.names\n"), 0644))

	_, err := NewFileConfig(path, nil)
	assert.Error(t, err)

	_, err = NewFileConfig(filepath.Join(t.TempDir(), "missing.conf"), nil)
	assert.Error(t, err)
}

func TestStaticConfig(t *testing.T) {
	defaults := map[string]any{"scan.names": "auto"}
	c := NewStaticConfig(defaults)
	defaults["scan.names"] = "none"

	value, err := c.Get("scan.names")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"scan.names": "auto"}, value)
}

func TestParseSnapctlValue(t *testing.T) {
	value, err := parseSnapctlValue("config.user.scan.names", "builtin")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"config.user.scan.names": "builtin"}, value)

	value, err = parseSnapctlValue("config", `{"user": {"scan": {"names": "none"}}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{"scan": map[string]any{"names": "none"}}}, value)
}

func TestStringValue(t *testing.T) {
	values := map[string]any{
		"scan.names":          "builtin",
		"scan.gpu-properties": true,
		"scan.retries":        float64(3),
		"scan.pci-ids-path":   nil,
	}

	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{"scan.names", "builtin", true},
		{"scan.gpu-properties", "true", true},
		{"scan.retries", "3", true},
		{"scan.pci-ids-path", "", false},
		{"scan.sysfs-root", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, found := StringValue(values, tt.key)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubtree(t *testing.T) {
	values := map[string]any{
		"scan.names":    "auto",
		"scanner.names": "none",
		"scan":          "x",
	}
	assert.Equal(t, map[string]any{"scan.names": "auto", "scan": "x"}, subtree(values, "scan"))
	assert.Empty(t, subtree(values, "other"))
}
