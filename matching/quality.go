package matching

// Quality labels a score for display.
func Quality(score float64) string {
	switch {
	case score >= 0.99:
		return "perfect"
	case score >= 0.8:
		return "excellent"
	case score >= 0.6:
		return "good"
	case score >= 0.4:
		return "moderate"
	case score >= 0.2:
		return "weak"
	default:
		return "none"
	}
}
