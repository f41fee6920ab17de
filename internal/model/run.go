package model

import "time"

// RunRecord captures the outcome of a single pipeline run for history listing.
type RunRecord struct {
	StartedAt        time.Time
	ID               string
	SourceFile       string
	Region           string
	LinesRead        int
	ParseDiscarded   int
	Candidates       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int
	EnrichedMatches  int
	TotalRevenue     float64
}
