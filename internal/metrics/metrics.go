// Package metrics registers the Prometheus instruments for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostingsParsed counts normalized postings produced by adapters,
	// labeled by source.
	PostingsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobradar_postings_parsed_total",
		Help: "Normalized postings produced by source adapters.",
	}, []string{"source"})

	// LeadsCreated counts previously-unseen postings persisted as leads.
	LeadsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobradar_leads_created_total",
		Help: "Leads created from previously-unseen posting URLs.",
	})

	// Duplicates counts postings discarded because their URL already had a lead.
	Duplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobradar_duplicates_total",
		Help: "Postings discarded as duplicates of an existing lead URL.",
	})

	// FetchFailures counts sweep units skipped after a fetch or render error,
	// labeled by source.
	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobradar_fetch_failures_total",
		Help: "Sweep units skipped after a fetch or render failure.",
	}, []string{"source"})

	// Sweeps counts completed discovery sweeps.
	Sweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobradar_sweeps_total",
		Help: "Completed discovery sweeps.",
	})
)
