package activity

type FootprintInput struct {
	DailyActivities     *string
	CalculatedFootprint *float64
	ActivityBreakdown   *string
}

// WeeklyReportInput fields left empty are generated.
type WeeklyReportInput struct {
	PerformanceSummary *string
	Suggestions        *string
}
