// Package similarity scores two normalized grayscale buffers.
package similarity

const (
	// PixelTolerance is the largest absolute difference (exclusive) at which
	// two 8-bit pixels count as similar.
	PixelTolerance = 30
	// DegradedTolerance applies when the buffers differ in length.
	DegradedTolerance = 10

	pixelWeight      = 0.7
	differenceWeight = 0.3
)

// Score returns a similarity in [0,1] for two luminance buffers.
//
// Equal-length buffers are compared position by position: the score blends
// the fraction of positions within PixelTolerance (weight 0.7) with
// 1 - meanDiff/255 (weight 0.3). Buffers of different length fall back to a
// byte-tolerance comparison over the shorter length using DegradedTolerance,
// normalized by the longer length.
func Score(a, b []byte) float64 {
	if len(a) != len(b) {
		return degradedScore(a, b)
	}
	if len(a) == 0 {
		return 1
	}

	similar := 0
	var total uint64
	for i := range a {
		d := absDiff(a[i], b[i])
		if d < PixelTolerance {
			similar++
		}
		total += uint64(d)
	}
	if total == 0 {
		return 1
	}

	n := float64(len(a))
	pixelSimilarity := float64(similar) / n
	avgDiff := float64(total) / n
	differenceSimilarity := max(0, 1-avgDiff/255)

	return clamp(pixelWeight*pixelSimilarity + differenceWeight*differenceSimilarity)
}

func degradedScore(a, b []byte) float64 {
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	similar := 0
	for i := 0; i < shorter; i++ {
		if absDiff(a[i], b[i]) < DegradedTolerance {
			similar++
		}
	}
	return clamp(float64(similar) / float64(longer))
}

func absDiff(x, y byte) int {
	if x > y {
		return int(x - y)
	}
	return int(y - x)
}

func clamp(v float64) float64 {
	return min(1, max(0, v))
}
