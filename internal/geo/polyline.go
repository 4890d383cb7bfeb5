// Package geo holds the pure geometry helpers shared by the map pipeline:
// the encoded-polyline codec and great-circle distance.
package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/globalconnect/backend/internal/domain"
)

// DefaultPrecision is the Google Maps standard: coordinates are rounded to
// 1e-5 degrees before encoding.
const DefaultPrecision = 5

// DecodeError reports malformed polyline input. Offset is the byte index at
// which decoding could not continue.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("polyline: invalid input at byte %d: %s", e.Offset, e.Reason)
}

// Decode converts an encoded polyline into a coordinate sequence.
// Input ending mid-varint, or after a latitude with no matching longitude,
// fails with a *DecodeError rather than producing garbage.
func Decode(encoded string, precision int) ([]domain.Coordinate, error) {
	factor := math.Pow10(precision)
	var coords []domain.Coordinate
	index, lat, lon := 0, 0, 0

	for index < len(encoded) {
		dLat, next, err := decodeValue(encoded, index)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, &DecodeError{Offset: next, Reason: "latitude without longitude"}
		}
		dLon, after, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		index = after
		lat += dLat
		lon += dLon
		coords = append(coords, domain.Coordinate{
			Lat: float64(lat) / factor,
			Lon: float64(lon) / factor,
		})
	}
	return coords, nil
}

// decodeValue reads one signed varint starting at index and returns the
// delta plus the index of the next unread byte.
func decodeValue(encoded string, index int) (int, int, error) {
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			return 0, 0, &DecodeError{Offset: index, Reason: "truncated varint"}
		}
		b := int(encoded[index]) - 63
		if b < 0 {
			return 0, 0, &DecodeError{Offset: index, Reason: "byte below offset 63"}
		}
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}

// Encode converts a coordinate sequence into an encoded polyline.
// Decode(Encode(c)) reproduces c to within 10^-precision degrees.
func Encode(coords []domain.Coordinate, precision int) string {
	if len(coords) == 0 {
		return ""
	}
	factor := math.Pow10(precision)
	var b strings.Builder
	prevLat, prevLon := 0, 0
	for _, c := range coords {
		lat := int(math.Round(c.Lat * factor))
		lon := int(math.Round(c.Lon * factor))
		encodeValue(&b, lat-prevLat)
		encodeValue(&b, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return b.String()
}

func encodeValue(b *strings.Builder, value int) {
	v := value << 1
	if value < 0 {
		v = ^v
	}
	for v >= 0x20 {
		b.WriteByte(byte(0x20|(v&0x1f)) + 63)
		v >>= 5
	}
	b.WriteByte(byte(v) + 63)
}

// DecodePolyline decodes at the default precision.
func DecodePolyline(encoded string) ([]domain.Coordinate, error) {
	return Decode(encoded, DefaultPrecision)
}

// EncodePolyline encodes at the default precision.
func EncodePolyline(coords []domain.Coordinate) string {
	return Encode(coords, DefaultPrecision)
}
