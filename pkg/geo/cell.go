package geo

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

// MaxCellResolution is the finest H3 resolution.
const MaxCellResolution = 15

// Cell returns the H3 cell index containing p at resolution res.
func Cell(p Point, res int) (string, error) {
	if res < 0 || res > MaxCellResolution {
		return "", fmt.Errorf("h3 resolution %d out of range", res)
	}
	if !p.valid() {
		return "", fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}
	c, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lon), res)
	if err != nil {
		return "", fmt.Errorf("h3 cell: %w", err)
	}
	return c.String(), nil
}
