// Package metrics exports domain manager activity as Prometheus collectors
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/celldomain/domain"
)

// Repair outcomes
const (
	OutcomeFlip  = "flip"  // cell changed domain without creating or removing any
	OutcomeSplit = "split" // more domains were created than removed
	OutcomeMerge = "merge" // more domains were removed than created
)

// Observer implements domain.Observer, safe to scrape from another goroutine
type Observer struct {
	repairs   *prometheus.CounterVec
	relabeled prometheus.Counter
	duration  prometheus.Histogram
	domains   prometheus.Gauge
	edges     prometheus.Gauge
	builds    prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Observer {
	o := &Observer{
		repairs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "celldomain_repairs_total",
				Help: "Total number of domain repairs by outcome",
			},
			[]string{"outcome"},
		),
		relabeled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "celldomain_relabeled_cells_total",
			Help: "Total number of cells moved between domains by repairs",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "celldomain_repair_duration_seconds",
			Help:    "Duration of single-cell repairs",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		domains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "celldomain_domains",
			Help: "Number of live domains",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "celldomain_boundary_edges",
			Help: "Number of raw boundary edges",
		}),
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "celldomain_builds_total",
			Help: "Total number of full domain builds",
		}),
	}
	reg.MustRegister(o.repairs, o.relabeled, o.duration, o.domains, o.edges, o.builds)
	return o
}

func (o *Observer) DomainsBuilt(s domain.BuildStats) {
	o.builds.Inc()
	o.domains.Set(float64(s.Domains))
	o.edges.Set(float64(s.Edges))
}

func (o *Observer) Repaired(s domain.RepairStats) {
	o.repairs.WithLabelValues(Outcome(s)).Inc()
	o.relabeled.Add(float64(s.Relabeled))
	o.duration.Observe(s.Elapsed.Seconds())
	o.domains.Set(float64(s.Domains))
	o.edges.Set(float64(s.Edges))
}

// Outcome classifies a repair by its net domain change
func Outcome(s domain.RepairStats) string {
	switch {
	case len(s.Created) > len(s.Removed):
		return OutcomeSplit
	case len(s.Created) < len(s.Removed):
		return OutcomeMerge
	}
	return OutcomeFlip
}

var _ domain.Observer = (*Observer)(nil)
