package schemadrift

import "github.com/rs/zerolog"

// Messages renders every issue in found as "schemaKey:path - message",
// matching the original drift log line format.
func Messages(found map[string][]Issue) []string {
	var out []string
	for _, issues := range found {
		for _, issue := range issues {
			out = append(out, issue.SchemaKey+":"+issue.Path+" - "+issue.Message)
		}
	}
	return out
}

// LogIfAny emits a single WARN line summarizing found, or does nothing if
// found is empty. matchID is attached for correlation.
func LogIfAny(logger zerolog.Logger, matchID string, found map[string][]Issue) {
	messages := Messages(found)
	if len(messages) == 0 {
		return
	}
	logger.Warn().
		Str("match_id", matchID).
		Strs("keys", messages).
		Int("structure_drift_count", len(messages)).
		Msg("schema drift detected")
}
