package community

func strPtr(s string) *string { return &s }

// DefaultResources is the starter catalog published on first boot.
func DefaultResources() []ResourceInput {
	return []ResourceInput{
		{
			Title:    "Cutting home energy use",
			Category: strPtr("Energy"),
			Content:  strPtr("Lower the thermostat by one degree, seal drafts around windows and switch to LED bulbs. Small changes add up over a heating season."),
		},
		{
			Title:    "Getting around with less carbon",
			Category: strPtr("Transportation"),
			Content:  strPtr("Combine errands into one trip, try public transport twice a week and consider cycling for journeys under five kilometres."),
		},
		{
			Title:    "Eating for the planet",
			Category: strPtr("Food"),
			Content:  strPtr("Plant-based meals a few days a week, seasonal produce and planning portions to avoid waste all reduce a household's food footprint."),
		},
		{
			Title:    "Recycling basics",
			Category: strPtr("Waste"),
			Content:  strPtr("Rinse containers, keep soft plastics out of curbside bins and check your local council's list of accepted materials."),
		},
		{
			Title:    "Starting a community clean-up",
			Category: strPtr("Community"),
			Content:  strPtr("Pick a small area, agree a date with neighbours, borrow gloves and litter pickers from the council and report what you collect."),
		},
	}
}
