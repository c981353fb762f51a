package systems

import (
	"math"
	"math/rand"
)

// PerlinNoise generates coherent noise, used to give ambient particles a
// shared slow-moving drift field instead of uncorrelated jitter.
type PerlinNoise struct {
	perm [512]int
}

// NewPerlinNoise builds a generator with a permutation table shuffled from
// the given seed, so the drift field is reproducible per run.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}
	return p
}

// Noise3D returns a value in roughly [-1, 1] for a 3D coordinate. The third
// axis is used as time so the field animates.
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255
	zi := int(math.Floor(z)) & 255

	x -= math.Floor(x)
	y -= math.Floor(y)
	z -= math.Floor(z)

	u := smooth(x)
	v := smooth(y)
	w := smooth(z)

	a := p.perm[xi] + yi
	aa := p.perm[a] + zi
	ab := p.perm[a+1] + zi
	b := p.perm[xi+1] + yi
	ba := p.perm[b] + zi
	bb := p.perm[b+1] + zi

	x0 := blend(u,
		gradient(p.perm[aa], x, y, z),
		gradient(p.perm[ba], x-1, y, z))
	x1 := blend(u,
		gradient(p.perm[ab], x, y-1, z),
		gradient(p.perm[bb], x-1, y-1, z))
	x2 := blend(u,
		gradient(p.perm[aa+1], x, y, z-1),
		gradient(p.perm[ba+1], x-1, y, z-1))
	x3 := blend(u,
		gradient(p.perm[ab+1], x, y-1, z-1),
		gradient(p.perm[bb+1], x-1, y-1, z-1))

	return blend(w, blend(v, x0, x1), blend(v, x2, x3))
}

// Noise2D returns a value for a 2D coordinate.
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	return p.Noise3D(x, y, 0)
}

func smooth(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func blend(t, a, b float64) float64 {
	return a + t*(b-a)
}

func gradient(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
