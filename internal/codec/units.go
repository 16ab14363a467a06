// Package codec implements the two directions of the document codec: docx
// packages to the addressable JSON tree and back. It also hosts the JSON
// compaction pass and the sparse-patch applier that sit between the two
// directions in an editing round trip.
package codec

import (
	"strconv"
)

// Length units used by the wire formats: OOXML measures paragraph geometry in
// twips (1/20 pt), font sizes in half-points, and drawing extents in EMU.
const (
	twipsPerPoint     = 20
	halfPointsPerSize = 2
	emuPerPixel       = 9525
	// Line heights expressed as a multiple use 240ths of a single line.
	lineUnitsPerLine = 240
)

// twipsToPoints parses an OOXML twip attribute into points. Returns nil for
// empty or malformed values.
func twipsToPoints(attr string) *float64 {
	if attr == "" {
		return nil
	}
	v, err := strconv.ParseFloat(attr, 64)
	if err != nil {
		return nil
	}
	pt := v / twipsPerPoint
	return &pt
}

// pointsToTwips renders a point length as a twip attribute.
func pointsToTwips(pt float64) string {
	return strconv.Itoa(int(pt*twipsPerPoint + 0.5))
}

// halfPointsToPoints parses a half-point size attribute into points.
func halfPointsToPoints(attr string) *float64 {
	if attr == "" {
		return nil
	}
	v, err := strconv.ParseFloat(attr, 64)
	if err != nil {
		return nil
	}
	pt := v / halfPointsPerSize
	return &pt
}

// pointsToHalfPoints renders a point size as a half-point attribute.
func pointsToHalfPoints(pt float64) string {
	return strconv.Itoa(int(pt*halfPointsPerSize + 0.5))
}

// lineToMultiple converts a 240ths-of-a-line value into a spacing multiple.
func lineToMultiple(attr string) *float64 {
	if attr == "" {
		return nil
	}
	v, err := strconv.ParseFloat(attr, 64)
	if err != nil {
		return nil
	}
	m := v / lineUnitsPerLine
	return &m
}

// multipleToLine converts a spacing multiple into a 240ths-of-a-line value.
func multipleToLine(m float64) string {
	return strconv.Itoa(int(m*lineUnitsPerLine + 0.5))
}

// pixelsToEMU converts a pixel extent at 96 dpi into EMU.
func pixelsToEMU(px int) int64 {
	return int64(px) * emuPerPixel
}

func parseIntAttr(attr string) (int, bool) {
	if attr == "" {
		return 0, false
	}
	v, err := strconv.Atoi(attr)
	if err != nil {
		return 0, false
	}
	return v, true
}
