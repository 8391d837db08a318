// Package aggregate turns one agency's reviews into an AgencyReport.
package aggregate

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/agent-miner/internal/cluster"
	"github.com/sells-group/agent-miner/internal/extract"
	"github.com/sells-group/agent-miner/internal/model"
)

// DefaultMaxTestimonials caps the sample testimonials kept per agent.
const DefaultMaxTestimonials = 5

// Options tunes an Aggregator. Zero values select the defaults.
type Options struct {
	Threshold       float64
	MaxTestimonials int
}

// Aggregator classifies, clusters and summarizes reviews. It holds no
// per-agency state, so one instance can serve concurrent agencies.
type Aggregator struct {
	classifier      *extract.Classifier
	threshold       float64
	maxTestimonials int
}

// New creates an Aggregator over a classifier.
func New(c *extract.Classifier, opts Options) *Aggregator {
	if opts.Threshold <= 0 {
		opts.Threshold = cluster.DefaultThreshold
	}
	if opts.MaxTestimonials <= 0 {
		opts.MaxTestimonials = DefaultMaxTestimonials
	}
	return &Aggregator{
		classifier:      c,
		threshold:       opts.Threshold,
		maxTestimonials: opts.MaxTestimonials,
	}
}

// Aggregate builds the report for one agency. Every supplied review counts
// towards TotalReviews; only reviews grounding a name count as graded.
func (a *Aggregator) Aggregate(agency model.Agency, reviews []string) model.AgencyReport {
	log := zap.L().With(zap.String("agency", agency.Name))

	var graded []model.ClassifiedReview
	counts := make(map[string]int)
	for _, text := range reviews {
		cr, ok := a.classifier.Classify(text)
		if !ok {
			continue
		}
		graded = append(graded, cr)
		for _, name := range cr.Agents {
			counts[name]++
		}
	}

	groups := cluster.Cluster(counts, a.threshold)

	agents := make([]model.AgentRecord, 0, len(groups))
	for _, g := range groups {
		agents = append(agents, model.AgentRecord{
			CanonicalName:      g.Canonical,
			TotalMentions:      g.Count,
			VariantNames:       g.Variants,
			SampleTestimonials: a.testimonials(graded, g.Canonical),
		})
	}

	log.Debug("aggregate: agency summarized",
		zap.Int("reviews", len(reviews)),
		zap.Int("graded", len(graded)),
		zap.Int("agents", len(agents)),
	)

	return model.AgencyReport{
		AgencyName:        agency.Name,
		AgencyRef:         agency.Ref,
		TotalReviews:      len(reviews),
		ReviewsWithAgents: len(graded),
		Agents:            agents,
	}
}

// testimonials returns the first graded reviews whose agent list holds the
// canonical name exactly. Reviews naming only another variant are skipped.
func (a *Aggregator) testimonials(graded []model.ClassifiedReview, canonical string) []string {
	out := make([]string, 0, a.maxTestimonials)
	for _, cr := range graded {
		if len(out) == a.maxTestimonials {
			break
		}
		for _, name := range cr.Agents {
			if name == canonical {
				out = append(out, cr.Text)
				break
			}
		}
	}
	return out
}

// TopAgents ranks agents across reports by mentions. Ties order by agency
// name, then agent name. n <= 0 returns every agent.
func TopAgents(reports []model.AgencyReport, n int) []model.RankedAgent {
	var ranked []model.RankedAgent
	for _, r := range reports {
		for _, a := range r.Agents {
			ranked = append(ranked, model.RankedAgent{
				Name:       a.CanonicalName,
				Mentions:   a.TotalMentions,
				AgencyName: r.AgencyName,
			})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Mentions != ranked[j].Mentions {
			return ranked[i].Mentions > ranked[j].Mentions
		}
		if ranked[i].AgencyName != ranked[j].AgencyName {
			return ranked[i].AgencyName < ranked[j].AgencyName
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
