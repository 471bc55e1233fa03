// Package zone classifies hold durations, measured in 60 fps frames, into
// charge bands.
package zone

// Zone is the charge intensity band a hold currently falls into.
// Zones are ordered: a longer hold never maps to a lower zone.
type Zone int

const (
	None Zone = iota
	Tap
	Small
	Mid
	Large
	Full
)

// Lower frame bound of each zone.
const (
	TapFrame   = 1
	SmallFrame = 8
	MidFrame   = 14
	LargeFrame = 25
	FullFrame  = 36
)

func (z Zone) String() string {
	switch z {
	case None:
		return "none"
	case Tap:
		return "tap"
	case Small:
		return "small"
	case Mid:
		return "mid"
	case Large:
		return "large"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// Parse is the inverse of String.
func Parse(s string) (Zone, bool) {
	for z := None; z <= Full; z++ {
		if z.String() == s {
			return z, true
		}
	}
	return None, false
}

// Of classifies a frame count. Bounds are inclusive on both ends:
//
//	0      none
//	1-7    tap
//	8-13   small
//	14-24  mid
//	25-35  large
//	36+    full
func Of(frame int) Zone {
	switch {
	case frame >= FullFrame:
		return Full
	case frame >= LargeFrame:
		return Large
	case frame >= MidFrame:
		return Mid
	case frame >= SmallFrame:
		return Small
	case frame >= TapFrame:
		return Tap
	default:
		return None
	}
}
