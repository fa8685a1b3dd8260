// Package gen renders the Go source of a world from a validated schema.
package gen

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/rotisserie/eris"
	"golang.org/x/tools/imports"

	"github.com/plus3/splitecs/internal/schema"
)

//go:embed world.go.tmpl
var worldTemplate string

var tmpl = template.Must(template.New("world").Parse(worldTemplate))

// Source renders the world declared by w and returns gofmt-formatted Go source.
// filename is only used for error positions and import resolution.
func Source(w *schema.World, filename string) ([]byte, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, w); err != nil {
		return nil, eris.Wrapf(err, "rendering %s", w.Name)
	}

	src, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "formatting generated %s", w.Name)
	}
	return src, nil
}

// WriteFile renders w and writes it to path, replacing any previous contents.
func WriteFile(w *schema.World, path string) error {
	src, err := Source(w, filepath.Base(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}
	return nil
}
