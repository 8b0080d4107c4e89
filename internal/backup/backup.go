// Package backup exports saved state to a portable YAML document and
// restores it.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/samber/oops"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"vpet/internal/hibernation"
	"vpet/internal/pet"
	"vpet/internal/store"
)

// Version is written into every exported document
const Version = "1.0"

var (
	// ErrInvalidBackup is returned for documents that cannot be imported
	ErrInvalidBackup = errors.New("invalid backup")
	// ErrNothingToExport is returned when the store holds no pet
	ErrNothingToExport = errors.New("no saved pet to export")
)

// Document is the on-disk backup format
type Document struct {
	Version   string    `yaml:"version"`
	Timestamp time.Time `yaml:"timestamp"`
	Data      Data      `yaml:"data"`
}

// Data holds each stored key as a decoded JSON object
type Data struct {
	Pet         map[string]any `yaml:"vpet_data"`
	Hibernation map[string]any `yaml:"hibernationState,omitempty"`
}

// Export reads the pet and hibernation keys from s and renders them as YAML
func Export(ctx context.Context, s store.Store, now time.Time) ([]byte, error) {
	errb := oops.Code("BACKUP_EXPORT").In("backup")

	petData, err := loadObject(ctx, s, pet.StorageKey)
	if err != nil {
		return nil, errb.Wrapf(err, "reading pet")
	}
	if petData == nil {
		return nil, errb.Wrap(ErrNothingToExport)
	}
	gateData, err := loadObject(ctx, s, hibernation.StorageKey)
	if err != nil {
		return nil, errb.Wrapf(err, "reading hibernation state")
	}

	doc := Document{
		Version:   Version,
		Timestamp: now.UTC(),
		Data:      Data{Pet: petData, Hibernation: gateData},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errb.Wrapf(err, "encoding yaml")
	}
	return out, nil
}

// Import validates a backup document and writes its keys back to s,
// replacing what is stored. Nothing is written when validation fails.
func Import(ctx context.Context, s store.Store, data []byte, now time.Time) (Document, error) {
	errb := oops.Code("BACKUP_IMPORT").In("backup")

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, errb.Wrapf(errors.Join(ErrInvalidBackup, err), "decoding yaml")
	}
	if doc.Version != Version {
		return Document{}, errb.With("version", doc.Version).Wrapf(ErrInvalidBackup, "unsupported version %q", doc.Version)
	}
	if doc.Data.Pet == nil {
		return Document{}, errb.Wrapf(ErrInvalidBackup, "backup has no pet data")
	}

	petJSON, err := json.Marshal(doc.Data.Pet)
	if err != nil {
		return Document{}, errb.Wrapf(errors.Join(ErrInvalidBackup, err), "re-encoding pet data")
	}
	restored, err := pet.Decode(petJSON, now)
	if err != nil {
		return Document{}, errb.Wrapf(errors.Join(ErrInvalidBackup, err), "pet data")
	}
	petJSON, err = pet.Encode(restored)
	if err != nil {
		return Document{}, errb.Wrapf(err, "normalizing pet data")
	}

	var gateJSON []byte
	if doc.Data.Hibernation != nil {
		if gateJSON, err = json.Marshal(doc.Data.Hibernation); err != nil {
			return Document{}, errb.Wrapf(errors.Join(ErrInvalidBackup, err), "re-encoding hibernation state")
		}
		if err := hibernation.NewGate(hibernation.DefaultLimits(), zap.NewNop()).Restore(gateJSON, now); err != nil {
			return Document{}, errb.Wrapf(errors.Join(ErrInvalidBackup, err), "hibernation state")
		}
	}

	if err := s.Save(ctx, pet.StorageKey, string(petJSON)); err != nil {
		return Document{}, errb.Wrapf(err, "saving pet")
	}
	if gateJSON != nil {
		if err := s.Save(ctx, hibernation.StorageKey, string(gateJSON)); err != nil {
			return Document{}, errb.Wrapf(err, "saving hibernation state")
		}
	}
	return doc, nil
}

func loadObject(ctx context.Context, s store.Store, key string) (map[string]any, error) {
	raw, found, err := s.Load(ctx, key)
	if err != nil || !found {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, oops.With("key", key).Wrapf(err, "stored value is not a JSON object")
	}
	return obj, nil
}
