package transpiler

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertProgram(t *testing.T) {
	src := `Algoritmo Demo
    Definir x Como Entero
    x <- 3
    Si x > 2 Entonces
        Escribir "grande"
    Sino
        Escribir "chico"
    FinSi
FinAlgoritmo
`
	res := Convert(src)
	require.True(t, res.Success, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "Demo", res.MainName)
	assert.Equal(t, header+
		"// Algoritmo: Demo\n"+
		"function Demo() {\n"+
		"  let x;\n"+
		"  x = 3;\n"+
		"  if (x > 2) {\n"+
		"    console.log(\"grande\");\n"+
		"  } else {\n"+
		"    console.log(\"chico\");\n"+
		"  }\n"+
		"}\n"+
		"\n"+
		"\n// Ejecutar el algoritmo\n"+
		"Demo();\n", res.GeneratedText)
}

func TestConvertFunctionBeforeMain(t *testing.T) {
	src := `Funcion r <- Doble(n)
    r <- n * 2
FinFuncion

Algoritmo Principal
    Escribir Doble(4)
FinAlgoritmo`
	res := Convert(src)
	require.True(t, res.Success, res.Errors)
	assert.Equal(t, header+
		"function Doble(n) {\n"+
		"  let r;\n"+
		"  r = n * 2;\n"+
		"  return r;\n"+
		"}\n\n"+
		"\n"+
		"// Algoritmo: Principal\n"+
		"function Principal() {\n"+
		"  console.log(Doble(4));\n"+
		"}\n\n"+
		"\n// Ejecutar el algoritmo\n"+
		"Principal();\n", res.GeneratedText)
}

func TestConvertFunctionAfterMain(t *testing.T) {
	src := `Algoritmo Fact
    Escribir Factorial(5)
FinAlgoritmo

Funcion retorno <- Factorial(n)
    Definir retorno, i Como Entero
    retorno <- 1
    Para i <- 1 Hasta n Hacer
        retorno <- retorno * i
    FinPara
FinFuncion`
	res := Convert(src)
	require.True(t, res.Success, res.Errors)
	out := res.GeneratedText

	fn := strings.Index(out, "function Factorial(n) {")
	main := strings.Index(out, "function Fact() {")
	require.GreaterOrEqual(t, fn, 0)
	require.Greater(t, main, fn, "functions are emitted before the main routine")

	// Parameters and the return variable are never redeclared.
	assert.Contains(t, out, "  let retorno;\n  let i;\n  retorno = 1;\n")
	assert.NotContains(t, out, "let n")
	assert.Contains(t, out, "  for (i = 1; i <= n; i += 1) {\n    retorno = retorno * i;\n  }\n  return retorno;\n}\n")
	assert.True(t, strings.HasSuffix(out, "Fact();\n"))
}

func TestConvertForWithStep(t *testing.T) {
	res := Convert("Algoritmo P\nPara i <- 1 Hasta 10 Con Paso 2 Hacer\nEscribir i\nFinPara\nFinAlgoritmo")
	require.True(t, res.Success)
	assert.Contains(t, res.GeneratedText, "  for (let i = 1; i <= 10; i += 2) {\n    console.log(i);\n  }\n")
}

func TestConvertRepeat(t *testing.T) {
	src := `Algoritmo R
  Definir x Como Entero
  x <- 0
  Repetir
    x <- x + 1
  Hasta Que x > 3
FinAlgoritmo`
	res := Convert(src)
	require.True(t, res.Success)
	assert.Contains(t, res.GeneratedText, "  do {\n    x = x + 1;\n  } while (!(x > 3));\n")
}

func TestConvertInputWarning(t *testing.T) {
	res := Convert("Algoritmo L\nLeer n\nFinAlgoritmo")
	require.True(t, res.Success)
	assert.Contains(t, res.GeneratedText, "  let n = parseFloat(prompt(\"Ingresa n:\"));\n")
	assert.Equal(t, []string{"Línea 2: 'Leer' convertido a prompt()"}, res.Warnings)
	require.Len(t, res.Details, 1)
	assert.Equal(t, CategoryWarning, res.Details[0].Category)
	assert.Equal(t, 2, res.Details[0].Line)
}

func TestConvertUnknownLine(t *testing.T) {
	res := Convert("Algoritmo A\n\n  Esperar 1 Segundo\nFinAlgoritmo")
	require.True(t, res.Success)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, `Línea 3: "Esperar 1 Segundo" - requiere revisión manual`, res.Warnings[0])
	assert.Contains(t, res.GeneratedText, "  // Esperar 1 Segundo\n")
}

func TestConvertMissingStart(t *testing.T) {
	for _, src := range []string{"", "   \n\n", "Escribir 1"} {
		res := Convert(src)
		assert.False(t, res.Success)
		assert.Empty(t, res.GeneratedText)
		assert.Equal(t, []string{"Falta la declaración 'Algoritmo nombre'"}, res.Errors)
		require.Len(t, res.Details, 1)
		assert.Equal(t, CategoryStructure, res.Details[0].Category)
		assert.Equal(t, 0, res.Details[0].Line)
		assert.NotEmpty(t, res.Details[0].Suggestion)
		assert.NotNil(t, res.Warnings)
	}
}

func TestConvertMissingEnd(t *testing.T) {
	res := Convert("Algoritmo A\nEscribir 1")
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Falta 'FinAlgoritmo' al final"}, res.Errors)
	assert.Equal(t, 2, res.Details[0].Line)
	assert.Contains(t, res.GeneratedText, "function A() {\n  console.log(1);\n}\n")
	assert.True(t, strings.HasSuffix(res.GeneratedText, "A();\n"))
}

func TestConvertProcesoMarkers(t *testing.T) {
	res := Convert("Proceso Hola\nEscribir \"hola\"\nFinProceso")
	require.True(t, res.Success)
	assert.Equal(t, "Hola", res.MainName)
	assert.Contains(t, res.GeneratedText, "function Hola() {\n")
	assert.NotNil(t, res.Details)
	assert.Empty(t, res.Details)
}

func TestConvertDefaultName(t *testing.T) {
	res := Convert("Algoritmo\nFinAlgoritmo")
	require.True(t, res.Success)
	assert.Equal(t, "programa", res.MainName)
	assert.True(t, strings.HasSuffix(res.GeneratedText, "programa();\n"))
}

func TestConvertCommentsAndSemicolons(t *testing.T) {
	src := "// cabecera\nAlgoritmo C\n// dentro\nx <- 1; // uno\nEscribir x;\nFinAlgoritmo"
	res := Convert(src)
	require.True(t, res.Success)
	assert.Empty(t, res.Warnings)
	assert.Contains(t, res.GeneratedText, "// dentro\n  let x = 1;\n  console.log(x);\n")
}

func TestConvertBlockWarnings(t *testing.T) {
	src := "Algoritmo B\nMientras x Hacer\nFinAlgoritmo"
	res := Convert(src)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"Línea 2: bloque 'Mientras' sin cerrar"}, res.Warnings)

	assert.Contains(t, res.GeneratedText, "function B() {\n  while (x) {\n  }\n}\n")
	assert.Equal(t, strings.Count(res.GeneratedText, "{"), strings.Count(res.GeneratedText, "}"))

	strict := ConvertWithOptions(src, Options{Strict: true})
	assert.False(t, strict.Success)
	assert.Equal(t, []string{"Línea 2: bloque 'Mientras' sin cerrar"}, strict.Errors)
	assert.Equal(t, CategorySyntax, strict.Details[0].Category)
}

func TestConvertClosesOpenBlocks(t *testing.T) {
	t.Run("if left open", func(t *testing.T) {
		res := Convert("Algoritmo A\nSi x = 1 Entonces\nFinAlgoritmo")
		assert.Equal(t, []string{"Línea 2: bloque 'Si' sin cerrar"}, res.Warnings)
		assert.Contains(t, res.GeneratedText, "function A() {\n  if (x == 1) {\n  }\n}\n")
	})

	t.Run("repeat left open", func(t *testing.T) {
		res := Convert("Algoritmo A\nRepetir\nx <- 1\nFinAlgoritmo")
		assert.Contains(t, res.GeneratedText, "  do {\n    let x = 1;\n  } while (false);\n}\n")
	})

	t.Run("nested in function", func(t *testing.T) {
		res := Convert("Algoritmo A\nFinAlgoritmo\nFuncion r <- F(x)\nSi x Entonces\nMientras x Hacer\nr <- 1\nFinFuncion")
		assert.Equal(t, []string{
			"Línea 5: bloque 'Mientras' sin cerrar",
			"Línea 4: bloque 'Si' sin cerrar",
		}, res.Warnings)
		assert.Contains(t, res.GeneratedText, "function F(x) {\n"+
			"  let r;\n"+
			"  if (x) {\n"+
			"    while (x) {\n"+
			"      r = 1;\n"+
			"    }\n"+
			"  }\n"+
			"  return r;\n"+
			"}\n")
		assert.Equal(t, strings.Count(res.GeneratedText, "{"), strings.Count(res.GeneratedText, "}"))
	})
}

func TestConvertFunctionProblems(t *testing.T) {
	t.Run("missing FinFuncion", func(t *testing.T) {
		res := Convert("Algoritmo A\nFinAlgoritmo\nFuncion r <- F(x)\nr <- x")
		assert.True(t, res.Success)
		assert.Equal(t, []string{"Línea 3: la función no tiene 'FinFuncion'"}, res.Warnings)
		assert.Contains(t, res.GeneratedText, "function F(x) {\n  let r;\n  r = x;\n  return r;\n}\n")
	})

	t.Run("stray FinFuncion", func(t *testing.T) {
		res := Convert("Algoritmo A\nFinAlgoritmo\nFinFuncion")
		assert.Equal(t, []string{"Línea 3: 'FinFuncion' sin función abierta"}, res.Warnings)
	})

	t.Run("unparsed header", func(t *testing.T) {
		res := Convert("Algoritmo A\nFinAlgoritmo\nFuncion ???\nEscribir 1\nFinFuncion")
		assert.True(t, res.Success)
		assert.Equal(t, []string{"Función en línea 3: No se pudo convertir completamente"}, res.Warnings)
		assert.Contains(t, res.GeneratedText, "// Función no convertida: Funcion ???\n  console.log(1);\n// FinFuncion\n")
	})
}

func TestConvertBracesBalance(t *testing.T) {
	src := `Algoritmo Todo
    Definir i, n Como Entero
    Dimension m[2, 2]
    n <- azar(5)
    Para i <- 0 Hasta 1 Hacer
        Si i = 0 Entonces
            m[i, 0] <- 1
        Sino
            Mientras n > 0 Hacer
                n <- n - 1
            FinMientras
        FinSi
    FinPara
    Repetir
        n <- n + 1
    Hasta Que n >= 3
FinAlgoritmo`
	res := Convert(src)
	require.True(t, res.Success)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, strings.Count(res.GeneratedText, "{"), strings.Count(res.GeneratedText, "}"))
	assert.Equal(t, strings.Count(res.GeneratedText, "("), strings.Count(res.GeneratedText, ")"))
}

func TestConvertDeterministic(t *testing.T) {
	src := "Algoritmo D\nLeer a\nSi a > 1 Entonces\nEscribir a\nFinSi\nFinAlgoritmo"
	first := Convert(src)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Convert(src)
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, first, r)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Line: 3, Message: "m", Category: CategoryWarning}
	assert.Equal(t, "3: warning: m", d.String())
	assert.False(t, d.IsError())
	d = Diagnostic{Message: "x", Category: CategoryStructure}
	assert.Equal(t, "structure: x", d.String())
	assert.True(t, d.IsError())
}
