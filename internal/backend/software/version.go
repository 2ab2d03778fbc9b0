package software

import (
	"fmt"
	"strings"
)

// Version selects which generation of the backend surface to emulate.
type Version int

const (
	// VersionLegacy takes no curve argument and always works over secp256k1.
	VersionLegacy Version = iota
	// VersionNamed requires the raw curve identifier and knows only the
	// Weierstrass curves.
	VersionNamed
	// VersionCurrent accepts short codes or raw names and adds dedicated
	// ed25519 entry points.
	VersionCurrent
)

func (v Version) String() string {
	switch v {
	case VersionLegacy:
		return "legacy"
	case VersionNamed:
		return "named"
	case VersionCurrent:
		return "current"
	default:
		return fmt.Sprintf("version(%d)", int(v))
	}
}

// ParseVersion resolves a version name.
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy":
		return VersionLegacy, nil
	case "named":
		return VersionNamed, nil
	case "", "current":
		return VersionCurrent, nil
	default:
		return 0, fmt.Errorf("unknown backend version %q (must be legacy, named, or current)", s)
	}
}
