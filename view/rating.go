package view

import "math"

// StarCount is the number of star indicators every rating shows.
const StarCount = 5

// Stars marks star i filled when i < floor(rating). Ratings are truncated,
// never rounded: 4.9 shows four filled stars.
func Stars(rating float64) [StarCount]bool {
	var out [StarCount]bool
	if math.IsNaN(rating) || rating < 0 {
		return out
	}
	filled := int(math.Floor(math.Min(rating, StarCount)))
	for i := range out {
		out[i] = i < filled
	}
	return out
}

// FilledStars counts the filled indicators in s.
func FilledStars(s [StarCount]bool) int {
	n := 0
	for _, f := range s {
		if f {
			n++
		}
	}
	return n
}
