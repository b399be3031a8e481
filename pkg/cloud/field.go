package cloud

import (
	"math"

	"github.com/matzehuels/bubblecloud/pkg/geom"
	"github.com/matzehuels/bubblecloud/pkg/physics"
)

const (
	// fieldRadiusScale converts √max(w, h) into the field and boundary radius.
	fieldRadiusScale = 100

	// fieldStrengthScale multiplies max(w, h) into the field strength.
	fieldStrengthScale = 4
)

// Field is the radial attraction field pulling nodes to the surface center.
type Field = physics.Field

// DeriveField computes the attraction field and the containment boundary for
// a surface of the given size.
//
// With s = max(w, h) and r = √s·100, the field is centered on the surface
// with region and minimum radius r and strength 4s. The boundary is the
// surface frame with its width replaced by r and its origin shifted left by
// r/2. Radius grows with the square root of the larger dimension so the
// containment and the pull stay proportionate on very small and very large
// surfaces.
func DeriveField(size geom.Size) (Field, geom.Rect) {
	strength := size.Max()
	radius := math.Sqrt(strength) * fieldRadiusScale

	boundary := size.Frame()
	boundary.Width = radius
	boundary.X -= boundary.Width / 2

	field := Field{
		Center:        geom.Vec{X: size.Width / 2, Y: size.Height / 2},
		Radius:        radius,
		MinimumRadius: radius,
		Strength:      strength * fieldStrengthScale,
	}
	return field, boundary
}
