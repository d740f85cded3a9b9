package transpiler

import (
	"os"
	"strings"
	"testing"

	"pseint2js/catalog"
)

// seedCorpus adds every catalog solution, the programs under examples/
// and a few malformed programs.
func seedCorpus(f *testing.F) {
	c, err := catalog.Load()
	if err != nil {
		f.Fatal(err)
	}
	for _, ex := range c.All() {
		f.Add(ex.Solution)
	}
	for _, path := range exampleFiles(f) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(string(data))
	}
	f.Add("")
	f.Add("Algoritmo")
	f.Add("FinAlgoritmo\nAlgoritmo X")
	f.Add("Algoritmo A\nSi Entonces\nFinMientras\nHasta Que\nFinAlgoritmo")
	f.Add("Funcion\nFinFuncion\nAlgoritmo A\nx <- azar(azar(\nFinAlgoritmo")
	f.Add("Algoritmo A\nEscribir \"sin cerrar\nDimension v[,]\nPara Hasta Hacer\nFinAlgoritmo")
}

func FuzzConvert(f *testing.F) {
	seedCorpus(f)
	f.Fuzz(func(t *testing.T, src string) {
		res := ConvertWithOptions(src, Options{})
		for _, e := range res.Errors {
			if strings.HasPrefix(e, "Error de conversión") {
				t.Fatalf("converter panicked: %s", e)
			}
		}
		if res.Success != (len(res.Errors) == 0) {
			t.Fatalf("success=%v with %d errors", res.Success, len(res.Errors))
		}
		again := ConvertWithOptions(src, Options{})
		if again.GeneratedText != res.GeneratedText {
			t.Fatal("conversion is not deterministic")
		}
		if res.GeneratedText != "" && !strings.HasPrefix(res.GeneratedText, header) {
			t.Fatal("generated text lost its header")
		}
	})
}
