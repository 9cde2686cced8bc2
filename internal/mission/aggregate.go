package mission

// Summary holds catalog-wide aggregates.
type Summary struct {
	Count       int
	TotalBudget float64 // millions of USD

	// Longest and Shortest are nil for an empty catalog. On equal durations
	// the mission that comes first in the catalog wins.
	Longest  *Mission
	Shortest *Mission
}

// Aggregate computes the total budget and the longest and shortest missions.
func Aggregate(c *Catalog) Summary {
	var s Summary
	if c == nil {
		return s
	}

	for i := range c.Missions {
		m := &c.Missions[i]
		s.Count++
		s.TotalBudget += m.BudgetMillionsUSD

		// Strict comparisons keep the first mission on ties.
		if s.Longest == nil || m.DurationDays > s.Longest.DurationDays {
			s.Longest = m
		}
		if s.Shortest == nil || m.DurationDays < s.Shortest.DurationDays {
			s.Shortest = m
		}
	}

	if s.Longest != nil {
		longest, shortest := *s.Longest, *s.Shortest
		s.Longest, s.Shortest = &longest, &shortest
	}
	return s
}

// TotalCrew returns the number of crew seats across the catalog.
func TotalCrew(c *Catalog) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, m := range c.Missions {
		n += len(m.Crew)
	}
	return n
}
