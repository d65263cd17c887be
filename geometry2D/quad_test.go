package geometry2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadGeometry(t *testing.T) {
	q := NewQuad(
		NewPoint(0, 0),
		NewPoint(2, 0),
		NewPoint(0, 2),
		NewPoint(4, 4),
	)
	mpt := q.EdgeMidpoints()
	assert.Equal(t, NewPoint(0, 1), mpt[0])
	assert.Equal(t, NewPoint(3, 2), mpt[1])
	assert.Equal(t, NewPoint(1, 0), mpt[2])
	assert.Equal(t, NewPoint(2, 3), mpt[3])

	// centroid = mean of the edge midpoints; each vertex enters exactly two
	// midpoints, so this coincides with the vertex mean
	cpt := q.Centroid()
	assert.Equal(t, NewPoint(1.5, 1.5), cpt)

	faces := [4][2]int{{0, 2}, {1, 3}, {0, 1}, {2, 3}}
	for f := 0; f < 4; f++ {
		assert.Equal(t, faces[f], FaceVertices(f))
	}
	assert.Panics(t, func() { FaceVertices(4) })
}

func TestMid(t *testing.T) {
	m := Mid(NewPoint(1, 2), NewPoint(3, 8))
	assert.True(t, math.Abs(m.X[0]-2) < 1.e-15)
	assert.True(t, math.Abs(m.X[1]-5) < 1.e-15)
}
