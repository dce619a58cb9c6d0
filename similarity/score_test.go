package similarity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filled(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}

// stripes builds a size x size buffer of 10px black/white bands.
func stripes(size int, vertical bool) []byte {
	b := make([]byte, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			band := y / 10
			if vertical {
				band = x / 10
			}
			if band%2 == 0 {
				b[y*size+x] = 255
			}
		}
	}
	return b
}

func TestScore_IdenticalBuffersScoreOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", []byte{}},
		{"single pixel", []byte{17}},
		{"black", filled(10000, 0)},
		{"white", filled(10000, 255)},
		{"stripes", stripes(100, false)},
	}
	noise := make([]byte, 10000)
	rng.Read(noise)
	tests = append(tests, struct {
		name string
		buf  []byte
	}{"random noise", noise})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := append([]byte(nil), tt.buf...)
			assert.Equal(t, 1.0, Score(tt.buf, other))
		})
	}
}

func TestScore_UnrelatedImagesBelowThreshold(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want float64
	}{
		{"black vs white", filled(10000, 0), filled(10000, 255), 0},
		{"horizontal vs vertical stripes", stripes(100, false), stripes(100, true), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Less(t, got, 0.8)
		})
	}
}

func TestScore_ToleranceBoundary(t *testing.T) {
	// d = 29 is similar, d = 30 is not.
	within := Score(filled(100, 100), filled(100, 129))
	outside := Score(filled(100, 100), filled(100, 130))

	assert.InDelta(t, 0.7+0.3*(1-29.0/255), within, 1e-9)
	assert.InDelta(t, 0.3*(1-30.0/255), outside, 1e-9)
}

func TestScore_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := make([]byte, 2500)
	b := make([]byte, 2500)
	rng.Read(a)
	rng.Read(b)
	assert.Equal(t, Score(a, b), Score(b, a))
}

func TestScore_AlwaysInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		a := make([]byte, 1+rng.Intn(500))
		b := make([]byte, 1+rng.Intn(500))
		rng.Read(a)
		rng.Read(b)
		s := Score(a, b)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScore_UnequalLengthDegradedComparison(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want float64
	}{
		{"prefix equal", filled(50, 40), filled(100, 40), 0.5},
		{"within degraded tolerance", filled(100, 40), filled(50, 49), 0.5},
		{"outside degraded tolerance", filled(100, 40), filled(50, 50), 0},
		{"one side empty", []byte{}, filled(10, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.a, tt.b), 1e-9)
		})
	}
}
