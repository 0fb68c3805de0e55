package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/store"
)

// exportEnvelope is the portable profile document.
type exportEnvelope struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Profile    *Profile  `json:"profile"`
}

// ExportProfile serializes a valid profile into a versioned JSON document.
func ExportProfile(p *Profile) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(exportEnvelope{
		Version:    config.ProfileExportVersion,
		ExportedAt: time.Now().UTC(),
		Profile:    p,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrProfileEncode, err)
	}
	return data, nil
}

// ImportProfile parses a document written by ExportProfile and validates the profile.
func ImportProfile(data []byte) (*Profile, error) {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrProfileDecode, err)
	}
	if env.Version != config.ProfileExportVersion {
		return nil, fmt.Errorf("%s: %d", config.ErrProfileVersion, env.Version)
	}
	if env.Profile == nil {
		return nil, errors.New(config.ErrProfileMissing)
	}
	if err := env.Profile.Validate(); err != nil {
		return nil, err
	}
	return env.Profile, nil
}

// ProfileRepository persists the single profile under the profile key.
type ProfileRepository struct {
	store store.Store
}

// NewProfileRepository returns a repository backed by s.
func NewProfileRepository(s store.Store) *ProfileRepository {
	return &ProfileRepository{store: s}
}

// Save replaces the stored profile.
func (r *ProfileRepository) Save(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrProfileEncode, err)
	}
	return r.store.Save(ctx, config.StoreKeyProfile, data)
}

// Load returns the stored profile, or nil when none exists.
func (r *ProfileRepository) Load(ctx context.Context) (*Profile, error) {
	data, err := r.store.Load(ctx, config.StoreKeyProfile)
	if err != nil || data == nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrProfileDecode, err)
	}
	return &p, nil
}

// Remove deletes the stored profile.
func (r *ProfileRepository) Remove(ctx context.Context) error {
	return r.store.Remove(ctx, config.StoreKeyProfile)
}
