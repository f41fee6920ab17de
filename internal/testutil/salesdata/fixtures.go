package salesdata

// Expected holds the counters an unfiltered pipeline run produces.
type Expected struct {
	LinesRead      int
	ParseDiscarded int
	Candidates     int
	Invalid        int
	Final          int
	TotalRevenue   float64
}

// Fixture is a predefined sales log with known results.
type Fixture struct {
	name     string
	lines    []string
	expected Expected
}

// Name returns the fixture's descriptive name.
func (f *Fixture) Name() string { return f.name }

// Expected returns the counters of an unfiltered run.
func (f *Fixture) Expected() Expected { return f.expected }

// Content returns the fixture as file content.
func (f *Fixture) Content() string {
	return (&Builder{lines: f.lines}).Build()
}

// Predefined fixtures for common test scenarios.
var (
	// FixtureMixed has a header, a blank line, a thousands separator, one
	// malformed line and two records rejected by validation.
	FixtureMixed = &Fixture{
		name: "Mixed",
		lines: []string{
			Header,
			"T001|2024-12-01|P101|Laptop|2|45,000|C001|North",
			"T002|2024-12-01|P102|Mouse|5|500|C002|South",
			"",
			"T003|2024-12-02|P101|Laptop|1|45000|C003|North",
			"X004|2024-12-02|P103|Keyboard|1|1500|C001|East",
			"T005|2024-12-03|P104|Monitor|0|12000|C002|West",
			"T006|2024-12-03|P105",
			"T007|2024-12-03|P999|Cable|3|200|C004|South",
		},
		expected: Expected{
			LinesRead:      7,
			ParseDiscarded: 1,
			Candidates:     6,
			Invalid:        2,
			Final:          4,
			TotalRevenue:   138100,
		},
	}

	// FixtureClean has only valid records across four regions.
	FixtureClean = &Fixture{
		name: "Clean",
		lines: []string{
			Header,
			"T101|2024-11-01|P1|Phone|1|30000|C010|North",
			"T102|2024-11-01|P2|Charger|2|800|C011|South",
			"T103|2024-11-02|P3|Headphones|1|2500|C010|East",
			"T104|2024-11-03|P1|Phone|2|30000|C012|West",
		},
		expected: Expected{
			LinesRead:    4,
			Candidates:   4,
			Final:        4,
			TotalRevenue: 94100,
		},
	}
)
