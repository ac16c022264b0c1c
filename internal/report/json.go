package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/linkgrab/internal/model"
)

// JSONWriter outputs the summary as JSON.
type JSONWriter struct {
	baseWriter

	version      string
	indent       bool
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter. version is recorded in the output.
func NewJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps a summary with the generating version.
type JSONReport struct {
	Version string            `json:"version"`
	Summary *model.RunSummary `json:"summary"`
}

// Write outputs the summary.
func (w *JSONWriter) Write(s *model.RunSummary) (int, error) {
	v := JSONReport{Version: w.version, Summary: s}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, "", w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
