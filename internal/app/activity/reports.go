package activity

import "math/rand/v2"

var reportSummaries = []string{
	"Great progress this week! You've reduced your carbon footprint by 15%",
	"Good effort on recycling initiatives. Room for improvement in energy consumption",
	"Excellent participation in community events. Keep up the eco-friendly habits!",
	"Steady progress towards your environmental goals. Focus on sustainable transport",
}

var reportSuggestions = []string{
	"Try using public transport twice this week",
	"Consider switching to energy-efficient appliances",
	"Join a local community clean-up event",
	"Reduce meat consumption by one day per week",
	"Use reusable bags for all shopping trips",
}

// ReportGenerator picks canned report text. Pick returns an index in [0, n).
type ReportGenerator struct {
	Pick func(n int) int
}

func NewReportGenerator() ReportGenerator {
	return ReportGenerator{Pick: rand.IntN}
}

func (g ReportGenerator) Summary() string {
	return reportSummaries[g.pick(len(reportSummaries))]
}

func (g ReportGenerator) Suggestion() string {
	return reportSuggestions[g.pick(len(reportSuggestions))]
}

func (g ReportGenerator) pick(n int) int {
	if g.Pick == nil {
		return rand.IntN(n)
	}
	i := g.Pick(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}
