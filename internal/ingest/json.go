package ingest

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-miner/internal/model"
)

// jsonAgency is one element of a JSON dump. agency_url is accepted as an
// alias of agency_ref.
type jsonAgency struct {
	AgencyName string   `json:"agency_name"`
	AgencyRef  string   `json:"agency_ref"`
	AgencyURL  string   `json:"agency_url"`
	Reviews    []string `json:"reviews"`
}

// ReadJSON decodes a JSON array of agencies one element at a time.
func ReadJSON(ctx context.Context, path string) ([]model.AgencyReviews, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	return DecodeJSON(ctx, f)
}

// DecodeJSON decodes a JSON array of agencies from r.
func DecodeJSON(ctx context.Context, r io.Reader) ([]model.AgencyReviews, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "ingest: json read opening token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, eris.Errorf("ingest: json expected '[', got %v", tok)
	}

	g := newGrouper()
	for decoder.More() {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "ingest: json context cancelled")
		}

		var item jsonAgency
		if err := decoder.Decode(&item); err != nil {
			return nil, eris.Wrap(err, "ingest: json decode element")
		}
		if item.AgencyName == "" {
			continue
		}
		ref := item.AgencyRef
		if ref == "" {
			ref = item.AgencyURL
		}
		g.add(model.Agency{Name: item.AgencyName, Ref: ref}, item.Reviews...)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, eris.Wrap(err, "ingest: json read closing token")
	}
	return g.out, nil
}
