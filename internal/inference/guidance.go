package inference

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/agricheck/models"
)

// Confidence tiers, in percent.
const (
	highConfidence     = 80.0
	moderateConfidence = 60.0
)

// Runner-up note thresholds, in percent.
const (
	runnerUpMinConfidence = 25.0
	runnerUpMaxGap        = 25.0
)

const (
	msgHighConfidence     = "Mataas ang kumpiyansa sa diagnosis na ito."
	msgModerateConfidence = "Katamtamang kumpiyansa sa diagnosis. Maaring kumonsulta sa agricultural expert para sa karagdagang tulong kung kinakailangan."
	msgLowConfidence      = "Mababa ang kumpiyansa. Maaring kumonsulta sa agricultural expert para sa mas tiyak na diagnosis."

	runnerUpNote = "\n\nNote: Posible ring %s (%.1f%% confidence). Maaring kumonsulta sa agricultural expert para sa mas tiyak na diagnosis."

	attentionPrefix = "💡 "
	reassurance     = "\n\n💚 Paalala: Ang mga sakit na ito ay maaaring ma-manage at gamutin. Sa tamang pangangalaga, maaaring gumaling ang inyong pananim."
)

// runnerUp is the second most likely class of a prediction.
type runnerUp struct {
	name       string
	confidence float64
}

// buildGuidance composes the farmer-facing text: a confidence tier line,
// the catalogue advice (with a runner-up note when the second class is
// close), and a reassurance for non-healthy diagnoses.
func buildGuidance(d Disease, confidence float64, second *runnerUp) string {
	var tier string
	switch {
	case confidence >= highConfidence:
		tier = msgHighConfidence
	case confidence >= moderateConfidence:
		tier = msgModerateConfidence
	default:
		tier = msgLowConfidence
	}

	advice := d.Advice
	if second != nil && second.confidence > runnerUpMinConfidence && confidence-second.confidence < runnerUpMaxGap {
		advice += fmt.Sprintf(runnerUpNote, second.name, second.confidence)
	}
	if d.Severity.NeedsAttention() {
		advice = attentionPrefix + advice
	}

	var b strings.Builder
	b.WriteString(tier)
	b.WriteString("\n\n")
	b.WriteString(advice)
	if d.Class != ClassHealthy && d.Severity != models.SeverityNone {
		b.WriteString(reassurance)
	}
	return b.String()
}
