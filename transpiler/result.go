package transpiler

import "fmt"

// Category classifies a Diagnostic.
type Category string

const (
	// CategoryStructure marks a missing program start or end marker.
	CategoryStructure Category = "structure"
	// CategorySyntax marks block nesting problems reported in strict mode.
	CategorySyntax Category = "syntax"
	// CategoryConversion marks an internal failure of the converter.
	CategoryConversion Category = "conversion"
	// CategoryWarning marks a non-fatal note about a converted line.
	CategoryWarning Category = "warning"
)

// Diagnostic is a structured error or warning attached to a source line.
// Line is 1-based; 0 means the diagnostic is not tied to a line.
type Diagnostic struct {
	Line       int      `json:"line"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Category   Category `json:"type"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// IsError reports whether the diagnostic makes the conversion fail.
func (d Diagnostic) IsError() bool {
	return d.Category != CategoryWarning
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%d: %s: %s", d.Line, d.Category, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Category, d.Message)
}

// Result is the outcome of converting one pseudocode program.
type Result struct {
	// Success is true iff Errors is empty.
	Success bool `json:"success"`
	// GeneratedText is the JavaScript program, empty when the start marker
	// is missing or the converter failed internally.
	GeneratedText string `json:"generatedText"`
	// MainName is the routine invoked at the end of GeneratedText.
	MainName string       `json:"mainName"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
	Details  []Diagnostic `json:"detailedErrors"`
}

// diagnostics accumulates messages for a single conversion.
type diagnostics struct {
	errors   []string
	warnings []string
	details  []Diagnostic
}

func (d *diagnostics) warn(line int, code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.warnings = append(d.warnings, msg)
	d.details = append(d.details, Diagnostic{
		Line:     line,
		Code:     code,
		Message:  msg,
		Category: CategoryWarning,
	})
}

func (d *diagnostics) fail(cat Category, line int, code, msg, suggestion string) {
	d.errors = append(d.errors, msg)
	d.details = append(d.details, Diagnostic{
		Line:       line,
		Code:       code,
		Message:    msg,
		Category:   cat,
		Suggestion: suggestion,
	})
}

// warningDetails returns the recorded warnings only.
func (d *diagnostics) warningDetails() []Diagnostic {
	var out []Diagnostic
	for _, det := range d.details {
		if !det.IsError() {
			out = append(out, det)
		}
	}
	return out
}

func (d *diagnostics) result(code, mainName string) *Result {
	return &Result{
		Success:       len(d.errors) == 0,
		GeneratedText: code,
		MainName:      mainName,
		Errors:        nonNil(d.errors),
		Warnings:      nonNil(d.warnings),
		Details:       nonNil(d.details),
	}
}

// nonNil keeps empty lists from encoding as JSON null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
