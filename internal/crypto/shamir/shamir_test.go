package shamir

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sss/internal/crypto/curves"
	"github.com/smallyu/go-sss/pkg/sss"
)

func randomScalars(t *testing.T, curve curves.Curve, n int) []curves.Scalar {
	t.Helper()
	out := make([]curves.Scalar, n)
	for i := range out {
		s, err := curve.NewScalar(rand.Reader)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func TestSplitCombine(t *testing.T) {
	for _, id := range sss.Curves() {
		t.Run(string(id), func(t *testing.T) {
			curve, err := curves.ForCurve(id)
			require.NoError(t, err)

			secret := randomScalars(t, curve, 1)[0]
			xs := randomScalars(t, curve, 5)

			ys, err := Split(curve, secret, xs, 3, rand.Reader)
			require.NoError(t, err)
			require.Len(t, ys, 5)

			subsets := [][]int{{0, 1, 2}, {2, 3, 4}, {4, 0, 2}, {0, 1, 2, 3, 4}}
			for _, subset := range subsets {
				var sx, sy []curves.Scalar
				for _, i := range subset {
					sx = append(sx, xs[i])
					sy = append(sy, ys[i])
				}
				got, err := Combine(curve, sx, sy)
				require.NoError(t, err)
				assert.True(t, got.Equal(secret), "subset %v", subset)
			}

			got, err := Combine(curve, xs[:2], ys[:2])
			require.NoError(t, err)
			assert.False(t, got.Equal(secret), "below threshold must not recover")
		})
	}
}

func TestSplitRejectsBadIdentifiers(t *testing.T) {
	curve := curves.NewSecp256k1()
	secret := curve.NewScalarFromInt(42)

	_, err := Split(curve, secret, []curves.Scalar{curve.NewScalarFromInt(1), curve.NewScalarFromInt(0)}, 2, rand.Reader)
	assert.ErrorIs(t, err, ErrZeroIdentifier)

	_, err = Split(curve, secret, []curves.Scalar{curve.NewScalarFromInt(3), curve.NewScalarFromInt(3)}, 2, rand.Reader)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)

	_, err = Split(curve, secret, []curves.Scalar{curve.NewScalarFromInt(1)}, 2, rand.Reader)
	assert.ErrorIs(t, err, ErrThreshold)

	_, err = Split(curve, secret, []curves.Scalar{curve.NewScalarFromInt(1)}, 0, rand.Reader)
	assert.ErrorIs(t, err, ErrThreshold)
}

func TestCombineRejectsDuplicates(t *testing.T) {
	curve := curves.NewEd25519()
	x := curve.NewScalarFromInt(9)
	_, err := Combine(curve, []curves.Scalar{x, x}, []curves.Scalar{x, x})
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
}
