// Package transpiler converts PSeInt-style pseudocode into JavaScript.
//
// Conversion is line oriented and never fails outright: lines that cannot
// be translated are kept as comments and reported as warnings in the
// Result. Only a missing program start or end marker is an error.
package transpiler

import (
	"fmt"
)

const header = "// Código convertido de PSeInt a JavaScript\n" +
	"// Nota: Los índices de arrays se ajustan de PSeInt (1-N) a JavaScript (0-N-1)\n\n"

// Options tunes a conversion.
type Options struct {
	// Strict reports mismatched, unmatched and unclosed blocks as syntax
	// errors instead of warnings.
	Strict bool
}

// Convert converts pseudocode with default options.
func Convert(src string) *Result {
	return ConvertWithOptions(src, Options{})
}

// ConvertWithOptions converts a whole pseudocode program. Functions defined
// before the start marker or after the end marker are emitted first, then
// the main routine, then a call to it.
//
// Each call works on fresh state, so concurrent calls are safe.
func ConvertWithOptions(src string, opts Options) (res *Result) {
	d := &diagnostics{}
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Error de conversión: %v", r)
			res = &Result{
				Errors:   []string{msg},
				Warnings: nonNil(d.warnings),
				Details:  append(d.warningDetails(), Diagnostic{Message: msg, Category: CategoryConversion}),
			}
		}
	}()

	lines := splitLines(src)
	start := -1
	for i, l := range lines {
		if isProgramStart(l) {
			start = i
			break
		}
	}
	if start < 0 {
		d.fail(CategoryStructure, 0, "Algoritmo nombre",
			"Falta la declaración 'Algoritmo nombre'",
			"Comienza el programa con una línea 'Algoritmo NombreDelPrograma'")
		return d.result("", "")
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if isProgramEnd(lines[i]) {
			end = i
			break
		}
	}

	funcLines := append([]srcLine(nil), lines[:start]...)
	var mainLines []srcLine
	if end < 0 {
		d.fail(CategoryStructure, lines[len(lines)-1].num, "FinAlgoritmo",
			"Falta 'FinAlgoritmo' al final",
			"Termina el programa con una línea 'FinAlgoritmo'")
		mainLines = lines[start:]
	} else {
		mainLines = lines[start : end+1]
		funcLines = append(funcLines, lines[end+1:]...)
	}

	var w codeWriter
	w.Raw(header)
	if fns := convertFunctions(funcLines, d, opts); fns != "" {
		w.Raw(fns)
		w.Raw("\n")
	}
	mainCode, name := convertMain(mainLines, d, opts)
	w.Raw(mainCode)
	w.Raw("\n// Ejecutar el algoritmo\n")
	w.Linef("%s();", name)

	return d.result(w.String(), name)
}
