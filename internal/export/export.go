// Package export writes agency reports as JSON, an HTML summary and an
// XLSX sheet.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/agent-miner/internal/model"
)

// Options selects the output files. Empty paths are skipped.
type Options struct {
	JSONPath string
	HTMLPath string
	XLSXPath string
}

// WriteFiles writes every configured output for reports.
func WriteFiles(opts Options, reports []model.AgencyReport) error {
	if opts.JSONPath != "" {
		if err := writeFile(opts.JSONPath, func(w io.Writer) error { return WriteJSON(w, reports) }); err != nil {
			return err
		}
		zap.L().Info("export: wrote json", zap.String("path", opts.JSONPath), zap.Int("agencies", len(reports)))
	}
	if opts.HTMLPath != "" {
		if err := writeFile(opts.HTMLPath, func(w io.Writer) error { return WriteHTML(w, reports) }); err != nil {
			return err
		}
		zap.L().Info("export: wrote html", zap.String("path", opts.HTMLPath))
	}
	if opts.XLSXPath != "" {
		n, err := WriteXLSX(opts.XLSXPath, reports)
		if err != nil {
			return err
		}
		zap.L().Info("export: wrote xlsx", zap.String("path", opts.XLSXPath), zap.Int("rows", n))
	}
	return nil
}

// WriteJSON encodes reports as indented JSON without escaping HTML or
// non-ASCII characters.
func WriteJSON(w io.Writer, reports []model.AgencyReport) error {
	if reports == nil {
		reports = []model.AgencyReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(reports), "export: encode json")
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
