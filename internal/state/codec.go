package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Migration rewrites a blob from version N to version N+1.
type Migration func(data json.RawMessage) (json.RawMessage, error)

// Codec versions the blobs of one namespace. Migrations is keyed by the
// version a migration upgrades from.
type Codec struct {
	Namespace  string
	Version    int
	Migrations map[int]Migration
}

// Encode marshals v into an envelope at the codec's current version.
func (c Codec) Encode(v any, now time.Time) (Envelope, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: encode: %w", c.Namespace, err)
	}
	return Envelope{Version: c.Version, Data: data, SavedAt: now.UTC()}, nil
}

// Decode upgrades env to the current version and unmarshals it into v.
func (c Codec) Decode(env Envelope, v any) error {
	if env.Version > c.Version {
		return newerVersionError(c.Namespace, env.Version, c.Version)
	}

	data := env.Data
	for version := env.Version; version < c.Version; version++ {
		migrate, ok := c.Migrations[version]
		if !ok {
			return fmt.Errorf("%s: no migration from version %d: %w", c.Namespace, version, ErrCorrupt)
		}
		var err error
		if data, err = migrate(data); err != nil {
			return fmt.Errorf("%s: migrate v%d: %w: %w", c.Namespace, version, ErrCorrupt, err)
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: decode: %w: %w", c.Namespace, ErrCorrupt, err)
	}
	return nil
}

// Namespace binds a codec to a backend.
type Namespace struct {
	backend Backend
	codec   Codec
	now     func() time.Time
}

func NewNamespace(backend Backend, codec Codec) *Namespace {
	return &Namespace{backend: backend, codec: codec, now: time.Now}
}

// Name returns the namespace key.
func (n *Namespace) Name() string {
	return n.codec.Namespace
}

// Load reads the owner's blob into v. It returns ErrNotFound when nothing is
// stored; v is left untouched in that case.
func (n *Namespace) Load(ctx context.Context, owner string, v any) error {
	env, err := n.backend.Load(ctx, n.codec.Namespace, owner)
	if err != nil {
		return err
	}
	return n.codec.Decode(env, v)
}

// Save writes v as the owner's blob.
func (n *Namespace) Save(ctx context.Context, owner string, v any) error {
	env, err := n.codec.Encode(v, n.now())
	if err != nil {
		return err
	}
	return n.backend.Save(ctx, n.codec.Namespace, owner, env)
}

// Delete drops the owner's blob.
func (n *Namespace) Delete(ctx context.Context, owner string) error {
	return n.backend.Delete(ctx, n.codec.Namespace, owner)
}

// IsNotFound reports whether err means nothing was stored.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNewerVersion reports whether err came from a blob this build cannot read.
func IsNewerVersion(err error) bool {
	return errors.Is(err, ErrNewerVersion)
}

// IsCorrupt reports whether err came from a blob that could not be parsed.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}
