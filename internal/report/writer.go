package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/eleven-am/fwaudit/internal/domain"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatBoth Format = "both"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatPDF, FormatBoth, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q (want html, pdf, both or json)", s)
}

func (f Format) extensions() []string {
	switch f {
	case FormatBoth:
		return []string{"html", "pdf"}
	default:
		return []string{string(f)}
	}
}

var renderers = map[string]func(io.Writer, *domain.Report) error{
	"html": RenderHTML,
	"pdf":  RenderPDF,
	"json": RenderJSON,
}

// BaseName is the file name, without extension, for a report generated at
// the report's timestamp.
func BaseName(r *domain.Report) string {
	return "firewall_audit_" + generatedAt(r).Format("20060102_150405")
}

// Write renders r into dir in the requested format, creating dir if needed,
// and returns the generated paths.
func Write(dir string, format Format, r *domain.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	base := BaseName(r)
	var paths []string
	for _, ext := range format.extensions() {
		render, ok := renderers[ext]
		if !ok {
			return paths, fmt.Errorf("unknown report format %q", format)
		}
		path := filepath.Join(dir, base+"."+ext)
		if err := writeFile(path, r, render); err != nil {
			return paths, err
		}
		log.Debugf("Wrote %s report to %s", ext, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, r *domain.Report, render func(io.Writer, *domain.Report) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := render(f, r); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
