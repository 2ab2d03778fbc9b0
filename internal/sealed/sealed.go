// Package sealed encrypts share bundles at rest under a passphrase.
//
// The key is derived with Argon2id and the payload is sealed with
// XChaCha20-Poly1305. The envelope header (KDF parameters and salt) is bound
// as additional data, so it cannot be altered without failing Open.
package sealed

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/smallyu/go-sss/internal/codec"
)

const (
	KDFArgon2id      = "argon2id"
	CipherXChaCha20  = "xchacha20-poly1305"
	envelopeVersion  = 1
	saltSize         = 16
	MinArgon2Memory  = 8 * 1024 // KiB
	MaxArgon2Memory  = 1 << 20  // KiB, 1 GiB
	MaxArgon2Time    = 16
	MinArgon2Threads = 1
)

var (
	ErrEmptyPassphrase = errors.New("empty passphrase")
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted envelope")
	ErrMalformed       = errors.New("malformed sealed envelope")
	ErrInvalidParams   = errors.New("invalid argon2 parameters")
)

// Params are the Argon2id cost parameters stored in each envelope.
type Params struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"` // KiB
	Threads uint8  `json:"threads"`
}

// DefaultParams returns the parameters used when none are given.
func DefaultParams() Params {
	return Params{Time: 1, Memory: 64 * 1024, Threads: 4}
}

// Validate bounds the parameters, including those read from untrusted
// envelopes.
func (p Params) Validate() error {
	if p.Time < 1 || p.Time > MaxArgon2Time {
		return fmt.Errorf("%w: time %d outside 1..%d", ErrInvalidParams, p.Time, MaxArgon2Time)
	}
	if p.Memory < MinArgon2Memory || p.Memory > MaxArgon2Memory {
		return fmt.Errorf("%w: memory %d KiB outside %d..%d", ErrInvalidParams, p.Memory, MinArgon2Memory, MaxArgon2Memory)
	}
	if p.Threads < MinArgon2Threads {
		return fmt.Errorf("%w: threads must be at least %d", ErrInvalidParams, MinArgon2Threads)
	}
	return nil
}

type envelope struct {
	Version    int    `json:"sealed"`
	KDF        string `json:"kdf"`
	Cipher     string `json:"cipher"`
	Params     Params `json:"params"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

func (e *envelope) additionalData() []byte {
	return []byte(fmt.Sprintf("%d|%s|%s|%d|%d|%d|%s",
		e.Version, e.KDF, e.Cipher, e.Params.Time, e.Params.Memory, e.Params.Threads, e.Salt))
}

type options struct {
	rand   io.Reader
	params Params
}

type Option func(*options)

// WithRand sets the source of salts and nonces. Defaults to crypto/rand.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

func WithParams(p Params) Option {
	return func(o *options) { o.params = p }
}

func deriveKey(passphrase, salt []byte, p Params) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.Memory, p.Threads, chacha20poly1305.KeySize)
}

// Seal encrypts plaintext and returns the JSON envelope.
func Seal(plaintext, passphrase []byte, opts ...Option) ([]byte, error) {
	o := options{rand: rand.Reader, params: DefaultParams()}
	for _, opt := range opts {
		opt(&o)
	}
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if err := o.params.Validate(); err != nil {
		return nil, err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(o.rand, salt); err != nil {
		return nil, fmt.Errorf("failed to draw salt: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(o.rand, nonce); err != nil {
		return nil, fmt.Errorf("failed to draw nonce: %w", err)
	}

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt, o.params))
	if err != nil {
		return nil, err
	}
	env := &envelope{
		Version: envelopeVersion,
		KDF:     KDFArgon2id,
		Cipher:  CipherXChaCha20,
		Params:  o.params,
		Salt:    codec.BytesToHex(salt),
		Nonce:   codec.BytesToHex(nonce),
	}
	env.Ciphertext = codec.BytesToHex(aead.Seal(nil, nonce, plaintext, env.additionalData()))
	return json.MarshalIndent(env, "", "  ")
}

// Open decrypts an envelope produced by Seal.
func Open(data, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, env.Version)
	}
	if env.KDF != KDFArgon2id || env.Cipher != CipherXChaCha20 {
		return nil, fmt.Errorf("%w: unsupported kdf %q or cipher %q", ErrMalformed, env.KDF, env.Cipher)
	}
	if err := env.Params.Validate(); err != nil {
		return nil, err
	}
	salt, err := codec.HexToBytes(env.Salt)
	if err != nil || len(salt) != saltSize {
		return nil, fmt.Errorf("%w: bad salt", ErrMalformed)
	}
	nonce, err := codec.HexToBytes(env.Nonce)
	if err != nil || len(nonce) != chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("%w: bad nonce", ErrMalformed)
	}
	ciphertext, err := codec.HexToBytes(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ciphertext", ErrMalformed)
	}

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt, env.Params))
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, env.additionalData())
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

// IsSealed reports whether data looks like an envelope rather than a plain
// bundle.
func IsSealed(data []byte) bool {
	var probe struct {
		Version int    `json:"sealed"`
		KDF     string `json:"kdf"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Version > 0 && probe.KDF != ""
}
