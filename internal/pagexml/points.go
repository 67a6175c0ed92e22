package pagexml

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/page-overlay/internal/logging"
)

// ParsePoints converts a PAGE points attribute ("x1,y1 x2,y2 ...") into
// integer points. Coordinates may be written as decimals and are truncated
// toward zero. Tokens that do not hold exactly two numeric fields are logged
// and skipped; the remaining tokens are still parsed.
func ParsePoints(points string) []image.Point {
	fields := strings.Fields(points)
	result := make([]image.Point, 0, len(fields))

	for _, tok := range fields {
		p, err := parsePoint(tok)
		if err != nil {
			logging.Warnf("Invalid coordinate in '%s': %v", tok, err)
			continue
		}
		result = append(result, p)
	}

	return result
}

func parsePoint(tok string) (image.Point, error) {
	parts := strings.Split(tok, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("expected 2 comma-separated values, got %d", len(parts))
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid y: %w", err)
	}
	if !finite(x) || !finite(y) {
		return image.Point{}, fmt.Errorf("coordinate is not a finite number")
	}
	return image.Point{X: int(x), Y: int(y)}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
