package framework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Default(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	names := make([]string, 0)
	for _, fw := range c.List() {
		names = append(names, fw.Name)
		assert.NotEmpty(t, fw.ID)
	}
	assert.Contains(t, names, "GDPR Art. 17")
	assert.Contains(t, names, "ISO 27001")
	assert.Contains(t, names, "SOC 2 Type II")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameworks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frameworks:\n  - name: NIST CSF 2.0\n    description: Cybersecurity framework\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, "nist-csf-2-0", list[0].ID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid yaml", data: "frameworks: [oops"},
		{name: "missing name", data: "frameworks:\n  - id: x\n"},
		{name: "duplicate id", data: "frameworks:\n  - name: A\n    id: a\n  - name: B\n    id: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestCatalog_ListIsCopy(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	list := c.List()
	list[0].Name = "changed"
	assert.NotEqual(t, "changed", c.List()[0].Name)
}
