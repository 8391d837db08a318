// Package ingest reads scraped review dumps and applies the review-card
// filters used when the dumps were collected.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/agent-miner/internal/model"
)

// Load reads a review dump, picking the parser by file extension:
// .json, .csv or .xlsx. Rows for the same agency are merged in first-seen
// order.
func Load(ctx context.Context, path string) ([]model.AgencyReviews, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ReadJSON(ctx, path)
	case ".csv":
		return ReadCSV(ctx, path)
	case ".xlsx":
		return ReadXLSX(path, XLSXOptions{})
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", ext)
	}
}

// LoadAll loads every path and concatenates the agencies.
func LoadAll(ctx context.Context, paths []string) ([]model.AgencyReviews, error) {
	var all []model.AgencyReviews
	for _, p := range paths {
		agencies, err := Load(ctx, p)
		if err != nil {
			return nil, err
		}
		all = append(all, agencies...)
	}
	return all, nil
}

// grouper merges flat (agency, review) rows into AgencyReviews.
type grouper struct {
	index map[model.Agency]int
	out   []model.AgencyReviews
}

func newGrouper() *grouper {
	return &grouper{index: make(map[model.Agency]int)}
}

func (g *grouper) add(agency model.Agency, reviews ...string) {
	agency.Name = strings.TrimSpace(agency.Name)
	agency.Ref = strings.TrimSpace(agency.Ref)

	i, ok := g.index[agency]
	if !ok {
		i = len(g.out)
		g.index[agency] = i
		g.out = append(g.out, model.AgencyReviews{Agency: agency})
	}
	for _, r := range reviews {
		if strings.TrimSpace(r) != "" {
			g.out[i].Reviews = append(g.out[i].Reviews, r)
		}
	}
}

// columns maps the header names of a tabular dump to their indexes.
type columns struct {
	name, ref, review int
}

func parseHeader(header []string) (columns, error) {
	c := columns{name: -1, ref: -1, review: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "agency_name", "agencia":
			c.name = i
		case "agency_ref", "agency_url", "url":
			c.ref = i
		case "review", "reseña", "testimonio":
			c.review = i
		}
	}
	if c.name < 0 || c.review < 0 {
		return c, eris.Errorf("ingest: header must name agency_name and review columns, got %v", header)
	}
	return c, nil
}

func (c columns) row(cells []string) (model.Agency, string, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(cells) {
			return ""
		}
		return cells[i]
	}
	name := strings.TrimSpace(cell(c.name))
	if name == "" {
		return model.Agency{}, "", false
	}
	return model.Agency{Name: name, Ref: cell(c.ref)}, cell(c.review), true
}
