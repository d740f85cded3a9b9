package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pseint2js/transpiler"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	all := c.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "suma-dos-numeros", all[0].ID)
	for _, ex := range all {
		assert.NotEmpty(t, ex.Title, ex.ID)
		assert.NotEmpty(t, ex.Solution, ex.ID)
		assert.NotEmpty(t, ex.Hints, ex.ID)
		assert.NotEmpty(t, ex.Instructions, ex.ID)
		assert.NotEmpty(t, ex.ExpectedOutput, ex.ID)
	}
}

func TestGet(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ex, err := c.Get("funcion-factorial")
	require.NoError(t, err)
	assert.Equal(t, "funciones", ex.Category)
	assert.Contains(t, ex.Solution, "Funcion retorno <- Factorial(n)")
	assert.Equal(t, "Si n=5, debe mostrar: El factorial de 5 es: 120", ex.ExpectedOutput)
	assert.Len(t, ex.Instructions, 4)

	ex, err = c.Get("llenar-mostrar-array")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Usa: Dimension numeros[5]",
		"Para llenar: numeros[i] <- ...",
		"Para mostrar: Escribir numeros[i]",
		"Los índices van de 0 a 4",
	}, ex.Hints)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownExercise)
}

func TestByCategory(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	loops := c.ByCategory("BUCLES")
	require.NotEmpty(t, loops)
	for _, ex := range loops {
		assert.Equal(t, "bucles", ex.Category)
	}
	assert.Empty(t, c.ByCategory("geometria"))
	assert.Len(t, c.ByCategory(""), len(c.All()))
	assert.Equal(t, []string{"basico", "condicionales", "bucles", "arrays", "funciones"}, c.Categories())
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	all := c.All()
	all[0].ID = "changed"
	ex, err := c.Get("suma-dos-numeros")
	require.NoError(t, err)
	assert.Equal(t, "suma-dos-numeros", ex.ID)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "exercises: [", "parse exercises"},
		{"missing id", "exercises:\n  - title: x\n", "missing id"},
		{"duplicate", "exercises:\n  - id: a\n  - id: a\n", "duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// Every reference solution must go through the converter cleanly.
func TestSolutionsConvert(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	for _, ex := range c.All() {
		t.Run(ex.ID, func(t *testing.T) {
			res := transpiler.Convert(ex.Solution)
			require.True(t, res.Success, "errors: %v", res.Errors)
			for _, w := range res.Warnings {
				assert.NotContains(t, w, "requiere revisión manual")
				assert.NotContains(t, w, "sin cerrar")
				assert.NotContains(t, w, "no corresponde")
			}
			assert.Equal(t,
				strings.Count(res.GeneratedText, "{"),
				strings.Count(res.GeneratedText, "}"),
				"unbalanced braces")
		})
	}
}
