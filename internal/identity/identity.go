// Package identity issues and persists the anonymous per-browser identifier.
package identity

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned by a Store that cannot persist a value.
var ErrUnavailable = errors.New("identity store unavailable")

var headerPattern = regexp.MustCompile(`^[A-Za-z0-9_\-=+/]{8,128}$`)

// Valid reports whether raw is an acceptable client supplied identifier.
func Valid(raw string) bool {
	return headerPattern.MatchString(raw)
}

// Store is the persistence behind an identifier: a cookie jar, a header, a file.
type Store interface {
	// Load returns the persisted identifier, or "" when none exists.
	Load() string
	// Save persists value. It is called at most once per Identifier call.
	Save(value string) error
	// Fingerprint returns the client traits mixed into new identifiers.
	Fingerprint() string
}

// Provider generates identifiers of the form user_<ms>_<base36>_<fp10>.
type Provider struct {
	Now    func() time.Time
	Random func() uint64
	Logger zerolog.Logger
}

// NewProvider returns a Provider using the wall clock and uuid randomness.
func NewProvider(logger zerolog.Logger) *Provider {
	return &Provider{Now: time.Now, Random: uuidRandom, Logger: logger}
}

// Identifier returns the persisted identifier or mints and saves a new one.
// When the store refuses the write, the minted value is still returned and
// lives only for the current request.
func (p *Provider) Identifier(store Store) string {
	if existing := store.Load(); existing != "" {
		return existing
	}
	id := p.generate(store.Fingerprint())
	if err := store.Save(id); err != nil {
		p.Logger.Debug().Err(err).Msg("identity store refused write; using ephemeral identifier")
	}
	return id
}

func (p *Provider) generate(traits string) string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	random := uuidRandom
	if p.Random != nil {
		random = p.Random
	}
	suffix := strconv.FormatUint(random(), 36)
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	return fmt.Sprintf("user_%d_%s_%s", now().UnixMilli(), suffix, fingerprint(traits))
}

// fingerprint is the first 10 characters of the base64 encoded traits.
func fingerprint(traits string) string {
	if len(traits) > 64 {
		traits = traits[:64]
	}
	enc := base64.StdEncoding.EncodeToString([]byte(traits))
	if len(enc) < 10 {
		enc += "0000000000"
	}
	return enc[:10]
}

func uuidRandom() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[:8])
}
