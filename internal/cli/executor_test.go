package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumnsOrder(t *testing.T) {
	resources := []map[string]any{
		{"id": "a", "name": "n", "status": "s", "zone": "nova", "binary": "nova-compute"},
		{"id": "b", "name": "m", "status": "s", "host": "cmp-1"},
	}

	columns := tableColumns(resources)

	// Canonical columns first, then the union of the remaining
	// fields in sorted order.
	require.True(t, len(columns) >= 3)
	assert.Equal(t, []string{"id", "name", "status"}, columns[:3])
	assert.Equal(t, []string{"binary", "host", "zone"}, columns[3:])
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, "", cellValue(nil))
	assert.Equal(t, "ACTIVE", cellValue("ACTIVE"))
	assert.Equal(t, "20", cellValue(float64(20)))
	assert.Equal(t, "true", cellValue(true))
	assert.Equal(t, `["sub-1","sub-2"]`, cellValue([]any{"sub-1", "sub-2"}))
}

func TestNewToolExecutorDefaultsFormat(t *testing.T) {
	e := NewToolExecutor(ExecutorOptions{})
	assert.Equal(t, OutputFormatTable, e.options.Format)
}
