package components

// String returns the display name for an AggregationState.
func (s AggregationState) String() string {
	names := AggregationStateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// AggregationStateNames returns the display names for all aggregation states.
// The order matches the AggregationState constants.
func AggregationStateNames() []string {
	return []string{"Free", "Aggregated"}
}

// String returns the display name for a SpeedClass.
func (c SpeedClass) String() string {
	names := SpeedClassNames()
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// SpeedClassNames returns the display names for all speed classes.
// The order matches the SpeedClass constants.
func SpeedClassNames() []string {
	return []string{"Slow", "Medium", "Fast", "Fastest"}
}
