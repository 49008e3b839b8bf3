package analysis

// LevelKind distinguishes support from resistance.
type LevelKind string

const (
	LevelSupport    LevelKind = "support"
	LevelResistance LevelKind = "resistance"
)

// clusterTolerance groups swing points within 1% into a single level.
const clusterTolerance = 0.01

// Level is a horizontal price level built from clustered swing points.
// Touches counts how many swings participate; more touches mean a more
// established level.
type Level struct {
	Price   float64   `json:"price"`
	Kind    LevelKind `json:"kind"`
	Touches int       `json:"touches"`
}

// clusterLevels merges swing points within clusterTolerance into levels,
// averaging the price across members.
func clusterLevels(swings []SwingPoint, kind LevelKind) []Level {
	var levels []Level

	for _, swing := range swings {
		merged := false
		for i := range levels {
			if relDiff(swing.Price, levels[i].Price) < clusterTolerance {
				// Running average keeps the level centered.
				n := float64(levels[i].Touches)
				levels[i].Price = (levels[i].Price*n + swing.Price) / (n + 1)
				levels[i].Touches++
				merged = true
				break
			}
		}
		if !merged {
			levels = append(levels, Level{Price: swing.Price, Kind: kind, Touches: 1})
		}
	}

	return levels
}

// NearestSupport returns the closest support below price, or nil.
func NearestSupport(levels []Level, price float64) *Level {
	var best *Level
	for i := range levels {
		l := &levels[i]
		if l.Price >= price {
			continue
		}
		if best == nil || l.Price > best.Price {
			best = l
		}
	}
	return best
}

// NearestResistance returns the closest resistance above price, or nil.
func NearestResistance(levels []Level, price float64) *Level {
	var best *Level
	for i := range levels {
		l := &levels[i]
		if l.Price <= price {
			continue
		}
		if best == nil || l.Price < best.Price {
			best = l
		}
	}
	return best
}

// NearLevel reports whether price sits within tolerance of the level.
func NearLevel(level *Level, price, tolerance float64) bool {
	if level == nil {
		return false
	}
	return relDiff(price, level.Price) < tolerance
}
