package scoring

import "pulseboard-backend/internal/triage/domain"

// AdmissionThreshold is the fixed minimum score for a candidate to enter the
// review queue. Items below it are counted as skipped, not errored.
const AdmissionThreshold = 60

// Admit decides whether a scored candidate is persisted.
func Admit(score domain.TriageScore) bool {
	return score.Value >= AdmissionThreshold
}
