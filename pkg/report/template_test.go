package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Evaluate(t *testing.T) {
	t.Run("should substitute variables", func(t *testing.T) {
		tmpl, err := ParseTemplate("row", "{{.year}}-{{.month}}: {{.wbs}}")
		require.NoError(t, err)

		value, err := tmpl.Evaluate(map[string]string{"year": "2025", "month": "03", "wbs": "CC1"})

		require.NoError(t, err)
		assert.Equal(t, "2025-03: CC1", value)
	})

	t.Run("should fail for unknown variable", func(t *testing.T) {
		tmpl, err := ParseTemplate("row", "{{.unknown}}")
		require.NoError(t, err)

		_, err = tmpl.Evaluate(map[string]string{"year": "2025"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown")
	})

	t.Run("should fail for malformed template", func(t *testing.T) {
		_, err := ParseTemplate("row", "{{.year")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid template row")
	})
}

func TestParseTemplates(t *testing.T) {
	templates, err := ParseTemplates([]string{"{{.a}}", "{{.b}}"})
	require.NoError(t, err)
	assert.Len(t, templates, 2)

	_, err = ParseTemplates([]string{"{{.a}}", "{{"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.values[1]")
}
