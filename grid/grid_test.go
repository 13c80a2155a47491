package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icm-sims/clustermerge/geom"
)

func testBounds() geom.Bounds {
	return geom.Bounds{Min: geom.Vec{0, 0, 0}, Max: geom.Vec{1, 1, 1}}
}

func TestNewBlockRejectsNon3D(t *testing.T) {
	_, err := NewBlock(8, 1, 8, testBounds(), 0)
	assert.Error(t, err)
	_, err = NewBlock(8, 8, 8, testBounds(), 0)
	assert.NoError(t, err)
}

func TestCoordinates(t *testing.T) {
	b, err := NewBlock(4, 4, 4, testBounds(), 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, b.Dx(0), 1e-15)
	// The first interior cell center sits half a cell inside the bounds.
	assert.InDelta(t, 0.125, b.CellCenter(0, b.Is()), 1e-15)
	assert.InDelta(t, 0.0, b.FaceCoord(0, b.Is()), 1e-15)
	assert.InDelta(t, 1.0, b.FaceCoord(0, b.Ie(0)+1), 1e-15)
	// Ghost cells extend past the bounds.
	assert.InDelta(t, -0.125, b.CellCenter(0, b.Is()-1), 1e-15)
}

func TestIdxRoundTrip(t *testing.T) {
	b, err := NewBlock(4, 6, 8, testBounds(), 0)
	require.NoError(t, err)

	seen := map[int]bool{}
	for k := 0; k < b.Total(2); k++ {
		for j := 0; j < b.Total(1); j++ {
			for i := 0; i < b.Total(0); i++ {
				idx := b.Idx(i, j, k)
				assert.False(t, seen[idx], "index collision at %d,%d,%d", i, j, k)
				seen[idx] = true
			}
		}
	}
	assert.Len(t, seen, len(b.Dens))
}

func TestDiodeOuterX(t *testing.T) {
	b, err := NewBlock(4, 4, 4, testBounds(), 0)
	require.NoError(t, err)

	// Fill the last interior plane with an inflowing state.
	ie := b.Ie(0)
	for k := 0; k < b.Total(2); k++ {
		for j := 0; j < b.Total(1); j++ {
			idx := b.Idx(ie, j, k)
			b.Dens[idx] = 2.5
			b.Vx[idx] = -3.0 // inflow: must be clamped in the ghosts
			b.Vy[idx] = 1.5
			b.Pres[idx] = 0.7
		}
	}

	b.ApplyDiode(OuterX)

	for g := 1; g <= NumGhost; g++ {
		idx := b.Idx(ie+g, b.Is(), b.Is())
		assert.Equal(t, 2.5, b.Dens[idx])
		assert.Equal(t, 0.7, b.Pres[idx])
		// Only the normal component is clamped.
		assert.Equal(t, 0.0, b.Vx[idx])
		assert.Equal(t, 1.5, b.Vy[idx])
	}
}

func TestDiodeInnerXKeepsOutflow(t *testing.T) {
	b, err := NewBlock(4, 4, 4, testBounds(), 0)
	require.NoError(t, err)

	is := b.Is()
	for k := 0; k < b.Total(2); k++ {
		for j := 0; j < b.Total(1); j++ {
			idx := b.Idx(is, j, k)
			b.Vx[idx] = -2.0 // already flowing out through the inner face
		}
	}

	b.ApplyDiode(InnerX)
	assert.Equal(t, -2.0, b.Vx[b.Idx(is-1, b.Is(), b.Is())])
}

func TestDiodeCopiesFaceFields(t *testing.T) {
	b, err := NewBlock(4, 4, 4, testBounds(), 0)
	require.NoError(t, err)

	is := b.Is()
	for k := 0; k < b.Total(2); k++ {
		for j := 0; j < b.Total(1); j++ {
			b.Bx[b.FIdx(0, is, j, k)] = 1.25
		}
	}

	b.ApplyDiode(InnerX)
	assert.Equal(t, 1.25, b.Bx[b.FIdx(0, is-1, b.Is(), b.Is())])
	assert.Equal(t, 1.25, b.Bx[b.FIdx(0, is-2, b.Is(), b.Is())])
}
