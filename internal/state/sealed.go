package state

import (
	"context"
	"encoding/json"
	"fmt"
)

// Sealer encrypts blob payloads; crypto.AESEncryptor satisfies it.
type Sealer interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// SealedBackend encrypts the payload of the listed namespaces before it
// reaches the wrapped backend. Other namespaces pass through untouched.
// A payload that fails to open is reported as ErrCorrupt, so rotating the
// key resets the affected visitors to empty state.
type SealedBackend struct {
	Backend
	sealer     Sealer
	namespaces map[string]bool
}

func NewSealedBackend(backend Backend, sealer Sealer, namespaces ...string) *SealedBackend {
	set := make(map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		set[ns] = true
	}
	return &SealedBackend{Backend: backend, sealer: sealer, namespaces: set}
}

func (b *SealedBackend) Load(ctx context.Context, namespace, owner string) (Envelope, error) {
	env, err := b.Backend.Load(ctx, namespace, owner)
	if err != nil || !b.namespaces[namespace] {
		return env, err
	}

	var sealed string
	if err := json.Unmarshal(env.Data, &sealed); err != nil {
		return Envelope{}, fmt.Errorf("%s: sealed payload: %w: %w", namespace, ErrCorrupt, err)
	}
	data, err := b.sealer.Decrypt([]byte(sealed))
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: open payload: %w: %w", namespace, ErrCorrupt, err)
	}
	env.Data = data
	return env, nil
}

func (b *SealedBackend) Save(ctx context.Context, namespace, owner string, env Envelope) error {
	if !b.namespaces[namespace] {
		return b.Backend.Save(ctx, namespace, owner, env)
	}

	sealed, err := b.sealer.Encrypt(env.Data)
	if err != nil {
		return fmt.Errorf("%s: seal payload: %w", namespace, err)
	}
	if env.Data, err = json.Marshal(string(sealed)); err != nil {
		return fmt.Errorf("%s: seal payload: %w", namespace, err)
	}
	return b.Backend.Save(ctx, namespace, owner, env)
}
