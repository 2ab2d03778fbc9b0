package software

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sss/pkg/sss"
)

func ids(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = make([]byte, 32)
		out[i][31] = byte(i + 1)
		out[i][0] = 0x07
	}
	return out
}

func secret(t *testing.T) []byte {
	t.Helper()
	b := make([]byte, 32)
	_, err := rand.Read(b)
	require.NoError(t, err)
	b[0] &= 0x0f
	return b
}

func ready(t *testing.T, v Version) sss.Backend {
	t.Helper()
	b := New(v)
	require.NoError(t, b.Initialize())
	return b
}

func TestParseVersion(t *testing.T) {
	for _, v := range []Version{VersionLegacy, VersionNamed, VersionCurrent} {
		got, err := ParseVersion(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	got, err := ParseVersion("")
	require.NoError(t, err)
	assert.Equal(t, VersionCurrent, got)

	_, err = ParseVersion("v2")
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	_, generic := New(VersionLegacy).(sss.GenericBackend)
	_, edwards := New(VersionLegacy).(sss.EdwardsBackend)
	assert.True(t, generic)
	assert.False(t, edwards)

	_, edwards = New(VersionNamed).(sss.EdwardsBackend)
	assert.False(t, edwards)

	_, edwards = New(VersionCurrent).(sss.EdwardsBackend)
	assert.True(t, edwards)
}

func TestRequiresInitialize(t *testing.T) {
	b := New(VersionCurrent).(sss.GenericBackend)
	_, err := b.SplitGeneric(secret(t), ids(3), 2, "secp256k1")
	assert.ErrorIs(t, err, sss.ErrBackendNotInitialized)

	_, err = b.CombineGeneric(nil, 2, "secp256k1")
	assert.ErrorIs(t, err, sss.ErrBackendNotInitialized)
}

func TestCurveArguments(t *testing.T) {
	tests := []struct {
		version Version
		arg     string
		ok      bool
	}{
		{VersionLegacy, "", true},
		{VersionLegacy, "secp256k1", false},
		{VersionLegacy, "p256", false},
		{VersionNamed, "secp256k1", true},
		{VersionNamed, "secp256r1", true},
		{VersionNamed, "p256", false},
		{VersionNamed, "", false},
		{VersionNamed, "ed25519", false},
		{VersionCurrent, "", true},
		{VersionCurrent, "secp256k1", true},
		{VersionCurrent, "p256", true},
		{VersionCurrent, "secp256r1", true},
		{VersionCurrent, "ed25519", false},
	}
	for _, tt := range tests {
		t.Run(tt.version.String()+"/"+tt.arg, func(t *testing.T) {
			b := ready(t, tt.version).(sss.GenericBackend)
			_, err := b.SplitGeneric(secret(t), ids(3), 2, tt.arg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestShareShapes(t *testing.T) {
	s := secret(t)

	legacy, err := ready(t, VersionLegacy).(sss.GenericBackend).SplitGeneric(s, ids(2), 2, "")
	require.NoError(t, err)
	assert.Equal(t, sss.KindSequence, legacy[0].Kind())
	assert.Len(t, legacy[0].Items(), 2)

	named, err := ready(t, VersionNamed).(sss.GenericBackend).SplitGeneric(s, ids(2), 2, "secp256k1")
	require.NoError(t, err)
	_, ok := named[0].Field("y")
	assert.True(t, ok)

	current, err := ready(t, VersionCurrent).(sss.GenericBackend).SplitGeneric(s, ids(2), 2, "secp256k1")
	require.NoError(t, err)
	id, ok := current[1].Field("id")
	require.True(t, ok)
	raw, _ := id.Raw()
	assert.Equal(t, ids(2)[1], raw)
	_, ok = current[0].Field("value")
	assert.True(t, ok)
}

func TestRoundTripPerVersion(t *testing.T) {
	cases := []struct {
		version Version
		arg     string
	}{
		{VersionLegacy, ""},
		{VersionNamed, "secp256k1"},
		{VersionNamed, "secp256r1"},
		{VersionCurrent, "p256"},
		{VersionCurrent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.version.String()+"/"+tc.arg, func(t *testing.T) {
			b := ready(t, tc.version).(sss.GenericBackend)
			s := secret(t)
			shares, err := b.SplitGeneric(s, ids(5), 3, tc.arg)
			require.NoError(t, err)
			require.Len(t, shares, 5)

			got, err := b.CombineGeneric([]sss.Share{shares[4], shares[0], shares[2]}, 3, tc.arg)
			require.NoError(t, err)
			assert.Equal(t, s, got)

			_, err = b.CombineGeneric(shares[:2], 3, tc.arg)
			assert.ErrorIs(t, err, sss.ErrInsufficientShares)
		})
	}
}

func TestEdwardsRoundTrip(t *testing.T) {
	b := ready(t, VersionCurrent).(sss.EdwardsBackend)
	s := secret(t)

	shares, err := b.SplitEdwards(s, ids(4), 2)
	require.NoError(t, err)

	got, err := b.CombineEdwards(shares[2:], 2)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestEdwardsRejectsOutOfRange(t *testing.T) {
	b := ready(t, VersionCurrent).(sss.EdwardsBackend)

	high := bytes.Repeat([]byte{0xff}, 32)
	_, err := b.SplitEdwards(high, ids(3), 2)
	assert.ErrorIs(t, err, sss.ErrScalarOutOfRange)

	bad := ids(3)
	bad[1] = high
	_, err = b.SplitEdwards(secret(t), bad, 2)
	assert.ErrorIs(t, err, sss.ErrScalarOutOfRange)
}

func TestSplitRejectsSecretAboveOrder(t *testing.T) {
	high := bytes.Repeat([]byte{0xff}, 32)
	tests := []struct {
		version Version
		curve   string
	}{
		{VersionLegacy, ""},
		{VersionNamed, "secp256k1"},
		{VersionNamed, "secp256r1"},
		{VersionCurrent, "secp256k1"},
		{VersionCurrent, "p256"},
	}
	for _, tt := range tests {
		t.Run(tt.version.String()+"/"+tt.curve, func(t *testing.T) {
			b := ready(t, tt.version).(sss.GenericBackend)
			_, err := b.SplitGeneric(high, ids(3), 2, tt.curve)
			assert.ErrorIs(t, err, sss.ErrScalarOutOfRange)
		})
	}
}

func TestSplitValidation(t *testing.T) {
	b := ready(t, VersionCurrent).(sss.GenericBackend)

	_, err := b.SplitGeneric(make([]byte, 31), ids(3), 2, "")
	assert.ErrorIs(t, err, sss.ErrInvalidSecretLength)

	_, err = b.SplitGeneric(secret(t), ids(3), 1, "")
	assert.ErrorIs(t, err, sss.ErrInvalidThreshold)

	_, err = b.SplitGeneric(secret(t), ids(3), 4, "")
	assert.ErrorIs(t, err, sss.ErrInvalidThreshold)

	dup := ids(3)
	dup[2] = dup[0]
	_, err = b.SplitGeneric(secret(t), dup, 2, "")
	assert.Error(t, err)

	zero := ids(3)
	zero[1] = make([]byte, 32)
	_, err = b.SplitGeneric(secret(t), zero, 2, "")
	assert.Error(t, err)

	short := ids(3)
	short[0] = []byte{1}
	_, err = b.SplitGeneric(secret(t), short, 2, "")
	assert.Error(t, err)
}

func TestDecodeShare(t *testing.T) {
	id := []byte{1}
	value := []byte{2}

	for _, share := range []sss.Share{sequenceShare(id, value), xyShare(id, value), idValueShare(id, value)} {
		gotID, gotValue, err := decodeShare(share)
		require.NoError(t, err, share.String())
		assert.Equal(t, id, gotID)
		assert.Equal(t, value, gotValue)
	}

	malformed := []sss.Share{
		sss.Bytes(id),
		sss.Sequence(sss.Bytes(id)),
		sss.Sequence(sss.Bytes(id), sss.Sequence()),
		sss.Labeled(sss.F("a", sss.Bytes(id))),
		sss.Labeled(sss.F("x", sss.Bytes(id)), sss.F("y", sss.Sequence())),
	}
	for _, share := range malformed {
		_, _, err := decodeShare(share)
		assert.ErrorIs(t, err, ErrMalformedShare, share.String())
	}
}
