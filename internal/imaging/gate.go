// Package imaging implements the admission gate that screens uploaded photos
// before classification. It rejects undecodable or oversized files, blurry
// shots and images that do not look like a rice leaf.
package imaging

import (
	"context"
	"errors"

	"github.com/MKhiriev/agricheck/internal/logger"
)

// Sharpness thresholds on the variance of the Laplacian response.
const (
	BlurRejectThreshold = 20.0
	BlurWarnThreshold   = 50.0
)

// Leaf-likelihood thresholds.
const (
	MinGreenRatio  = 0.15
	MinEdgeDensity = 0.05
)

// Leaf-green HSV band, 8-bit scale with hue in [0,180).
const (
	greenHueMin = 40
	greenHueMax = 80
	greenSatMin = 40
	greenValMin = 40
)

// Canny hysteresis thresholds.
const (
	cannyLow  = 50
	cannyHigh = 150
)

// Reason classifies why an image was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUndecodable
	ReasonTooBlurry
	ReasonNotLeaf
	ReasonTooLarge
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUndecodable:
		return "undecodable"
	case ReasonTooBlurry:
		return "too_blurry"
	case ReasonNotLeaf:
		return "not_a_leaf"
	case ReasonTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// Assessment is the verdict of the gate together with the measurements that
// led to it. Measurements after the failing stage are zero.
type Assessment struct {
	Accepted    bool
	Reason      Reason
	BlurScore   float64
	GreenRatio  float64
	EdgeDensity float64

	// SoftBlur is set when the image passed but its sharpness is in the
	// warning band.
	SoftBlur bool
}

// Gate screens uploaded photos. It is stateless and safe for concurrent use.
type Gate struct {
	log *logger.Logger
}

// NewGate returns a gate that reports soft-blur warnings to log.
func NewGate(log *logger.Logger) *Gate {
	return &Gate{log: log.WithComponent("image_gate")}
}

// Assess runs the decode, sharpness and leaf-likelihood stages in order and
// stops at the first failing one.
func (g *Gate) Assess(ctx context.Context, data []byte) Assessment {
	img, _, err := Decode(data)
	if errors.Is(err, ErrTooLarge) {
		return Assessment{Reason: ReasonTooLarge}
	}
	if err != nil {
		return Assessment{Reason: ReasonUndecodable}
	}
	rgba := ToRGBA(img)

	gray := grayscale(rgba)
	a := Assessment{BlurScore: laplacianVariance(gray)}
	if a.BlurScore < BlurRejectThreshold {
		a.Reason = ReasonTooBlurry
		return a
	}
	if a.BlurScore < BlurWarnThreshold {
		a.SoftBlur = true
		g.log.Warn().Float64("blur_score", a.BlurScore).Msg("image is slightly blurry, accepting")
	}

	a.GreenRatio = greenRatio(rgba)
	a.EdgeDensity = cannyEdgeRatio(gray, cannyLow, cannyHigh)
	if a.GreenRatio <= MinGreenRatio || a.EdgeDensity <= MinEdgeDensity {
		a.Reason = ReasonNotLeaf
		return a
	}

	a.Accepted = true
	return a
}
