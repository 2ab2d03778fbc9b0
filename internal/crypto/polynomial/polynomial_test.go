package polynomial

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/smallyu/go-sss/internal/crypto/curves"
	"github.com/smallyu/go-sss/pkg/sss"
)

func ints(curve curves.Curve, vals ...int64) []curves.Scalar {
	out := make([]curves.Scalar, len(vals))
	for i, v := range vals {
		out[i] = curve.NewScalarFromInt(v)
	}
	return out
}

func TestNew(t *testing.T) {
	curve := curves.NewSecp256k1()

	t.Run("with random secret", func(t *testing.T) {
		poly, err := New(curve, 2, nil, rand.Reader)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}

		if len(poly.Coefficients) != 3 {
			t.Errorf("Expected 3 coefficients for degree 2, got %d", len(poly.Coefficients))
		}

		// All coefficients should be non-nil and within range
		for i, c := range poly.Coefficients {
			if c == nil {
				t.Fatalf("Coefficient %d is nil", i)
			}
			if c.BigInt().Cmp(curve.Order()) >= 0 {
				t.Errorf("Coefficient %d is out of range", i)
			}
		}
	})

	t.Run("with provided secret", func(t *testing.T) {
		secret := curve.NewScalarFromInt(12345)
		poly, err := New(curve, 2, secret, rand.Reader)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}

		if !poly.Coefficients[0].Equal(secret) {
			t.Errorf("Expected a_0 = %s, got %s", secret.BigInt(), poly.Coefficients[0].BigInt())
		}
	})

	t.Run("degree 0", func(t *testing.T) {
		poly, err := New(curve, 0, curve.NewScalarFromInt(999), rand.Reader)
		if err != nil {
			t.Fatalf("Failed to create polynomial: %v", err)
		}

		if poly.Degree() != 0 {
			t.Errorf("Expected degree 0, got %d", poly.Degree())
		}
	})

	t.Run("negative degree", func(t *testing.T) {
		if _, err := New(curve, -1, nil, rand.Reader); err == nil {
			t.Error("Expected error for negative degree")
		}
	})

	t.Run("broken reader", func(t *testing.T) {
		if _, err := New(curve, 2, curve.NewScalarFromInt(1), errReader{}); err == nil {
			t.Error("Expected error from failing reader")
		}
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("no entropy")
}

func TestEvaluate(t *testing.T) {
	for _, id := range sss.Curves() {
		curve, err := curves.ForCurve(id)
		if err != nil {
			t.Fatal(err)
		}

		t.Run(string(id)+"/constant polynomial", func(t *testing.T) {
			// f(x) = 5
			poly := &Polynomial{Coefficients: ints(curve, 5), Curve: curve}

			for _, x := range []int64{0, 100} {
				if got := poly.Evaluate(curve.NewScalarFromInt(x)).BigInt(); got.Cmp(big.NewInt(5)) != 0 {
					t.Errorf("f(%d) = %s, expected 5", x, got)
				}
			}
		})

		t.Run(string(id)+"/quadratic polynomial", func(t *testing.T) {
			// f(x) = 1 + 2x + 3x^2
			poly := &Polynomial{Coefficients: ints(curve, 1, 2, 3), Curve: curve}

			want := map[int64]int64{0: 1, 1: 6, 2: 17, 3: 34}
			for x, y := range want {
				if got := poly.Evaluate(curve.NewScalarFromInt(x)).BigInt(); got.Cmp(big.NewInt(y)) != 0 {
					t.Errorf("f(%d) = %s, expected %d", x, got, y)
				}
			}
		})

		t.Run(string(id)+"/modular reduction", func(t *testing.T) {
			// f(x) = q-1 + 2x, f(1) = q+1 mod q = 1
			poly := &Polynomial{
				Coefficients: []curves.Scalar{curve.NewScalarFromInt(-1), curve.NewScalarFromInt(2)},
				Curve:        curve,
			}

			if got := poly.Evaluate(curve.NewScalarFromInt(1)).BigInt(); got.Cmp(big.NewInt(1)) != 0 {
				t.Errorf("f(1) = %s, expected 1 (after mod q)", got)
			}
		})
	}
}

func TestEvaluateMulti(t *testing.T) {
	curve := curves.NewSecp256k1()

	// f(x) = 5 + 3x
	poly := &Polynomial{Coefficients: ints(curve, 5, 3), Curve: curve}

	xs := ints(curve, 0, 1, 2, 10)
	expected := []int64{5, 8, 11, 35}

	results := poly.EvaluateMulti(xs)

	if len(results) != len(expected) {
		t.Fatalf("Expected %d results, got %d", len(expected), len(results))
	}

	for i, r := range results {
		if r.BigInt().Cmp(big.NewInt(expected[i])) != 0 {
			t.Errorf("f(%s) = %s, expected %d", xs[i].BigInt(), r.BigInt(), expected[i])
		}
	}
}

func TestInterpolateAtZero(t *testing.T) {
	for _, id := range sss.Curves() {
		t.Run(string(id), func(t *testing.T) {
			curve, err := curves.ForCurve(id)
			if err != nil {
				t.Fatal(err)
			}

			secret, err := curve.NewScalar(rand.Reader)
			if err != nil {
				t.Fatal(err)
			}
			// degree 2 means 3 shares needed
			poly, err := New(curve, 2, secret, rand.Reader)
			if err != nil {
				t.Fatalf("Failed to create polynomial: %v", err)
			}

			xs := ints(curve, 7, 1, 4, 9)
			ys := poly.EvaluateMulti(xs)

			got, err := InterpolateAtZero(curve, xs[:3], ys[:3])
			if err != nil {
				t.Fatalf("InterpolateAtZero failed: %v", err)
			}
			if !got.Equal(secret) {
				t.Errorf("Reconstructed secret = %s, expected %s", got.BigInt(), secret.BigInt())
			}

			got, err = InterpolateAtZero(curve, xs[1:], ys[1:])
			if err != nil {
				t.Fatalf("InterpolateAtZero failed: %v", err)
			}
			if !got.Equal(secret) {
				t.Errorf("Reconstructed secret from other subset = %s, expected %s", got.BigInt(), secret.BigInt())
			}

			// Two points of a degree-2 polynomial do not determine f(0).
			got, err = InterpolateAtZero(curve, xs[:2], ys[:2])
			if err != nil {
				t.Fatalf("InterpolateAtZero failed: %v", err)
			}
			if got.Equal(secret) {
				t.Error("Two points unexpectedly recovered the secret")
			}
		})
	}
}

func TestInterpolateAtZeroErrors(t *testing.T) {
	curve := curves.NewSecp256k1()

	if _, err := InterpolateAtZero(curve, ints(curve, 1, 1), ints(curve, 2, 3)); !errors.Is(err, ErrDuplicateX) {
		t.Errorf("Expected ErrDuplicateX, got %v", err)
	}
	if _, err := InterpolateAtZero(curve, ints(curve, 1), ints(curve, 2, 3)); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
	if _, err := InterpolateAtZero(curve, nil, nil); err == nil {
		t.Error("Expected error for empty input")
	}
}
