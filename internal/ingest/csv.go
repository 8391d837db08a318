package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-miner/internal/model"
)

// ReadCSV reads a CSV dump with one review per row.
func ReadCSV(ctx context.Context, path string) ([]model.AgencyReviews, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	return DecodeCSV(ctx, f)
}

// DecodeCSV reads CSV rows from r. The header row must name the
// agency_name and review columns; agency_ref is optional.
func DecodeCSV(ctx context.Context, r io.Reader) ([]model.AgencyReviews, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: csv read header")
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	g := newGrouper()
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "ingest: csv context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: csv read row")
		}

		if agency, review, ok := cols.row(record); ok {
			g.add(agency, review)
		}
	}
	return g.out, nil
}
