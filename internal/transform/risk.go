package transform

import "strings"

// ClassifyRisk buckets an explicit level string, falling back to the 0-10
// score when the level is missing or unrecognized: >= 8 HIGH, <= 3 LOW.
func ClassifyRisk(level string, score float64) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high", "critical":
		return RiskHigh
	case "medium", "moderate":
		return RiskMedium
	case "low":
		return RiskLow
	}
	switch {
	case score >= 8:
		return RiskHigh
	case score <= 3:
		return RiskLow
	default:
		return RiskMedium
	}
}
