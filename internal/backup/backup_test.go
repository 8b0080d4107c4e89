package backup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"vpet/internal/hibernation"
	"vpet/internal/pet"
	"vpet/internal/store"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore(0)

	p := pet.New(testNow)
	p.Name = "Pixel"
	p.Stage = pet.StageChild
	p.HasHatched = true
	p.Wins = 3
	data, err := pet.Encode(p)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, pet.StorageKey, string(data)))

	gate := hibernation.NewGate(hibernation.DefaultLimits(), zap.NewNop())
	gate.Start(2, hibernation.Vitals{Hunger: 100, Health: 100, Happiness: 100, Cleanliness: 100}, testNow)
	data, err = gate.Encode()
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, hibernation.StorageKey, string(data)))
	return s
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()

	out, err := Export(ctx, seededStore(t), testNow)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, Version, doc.Version)
	assert.True(t, doc.Timestamp.Equal(testNow))
	assert.Equal(t, "Pixel", doc.Data.Pet["name"])
	assert.Equal(t, true, doc.Data.Hibernation["isHibernating"])

	target := store.NewMemoryStore(0)
	imported, err := Import(ctx, target, out, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Version, imported.Version)

	raw, found, err := target.Load(ctx, pet.StorageKey)
	require.NoError(t, err)
	require.True(t, found)
	restored, err := pet.Decode([]byte(raw), testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "Pixel", restored.Name)
	assert.Equal(t, pet.StageChild, restored.Stage)
	assert.Equal(t, 3, restored.Wins)
	assert.True(t, restored.BirthTime.Equal(testNow))

	raw, found, err = target.Load(ctx, hibernation.StorageKey)
	require.NoError(t, err)
	require.True(t, found)
	gate := hibernation.NewGate(hibernation.DefaultLimits(), zap.NewNop())
	require.NoError(t, gate.Restore([]byte(raw), testNow.Add(time.Hour)))
	assert.True(t, gate.ShouldFreeze())
	assert.Equal(t, 47*time.Hour, gate.Remaining(testNow.Add(time.Hour)))
}

func TestExportWithoutPet(t *testing.T) {
	_, err := Export(context.Background(), store.NewMemoryStore(0), testNow)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "version: [unterminated"},
		{"missing version", "data:\n  vpet_data:\n    name: Pixel\n"},
		{"wrong version", "version: \"2.0\"\ndata:\n  vpet_data:\n    name: Pixel\n"},
		{"no pet", "version: \"1.0\"\ndata: {}\n"},
		{"bad hibernation", "version: \"1.0\"\ndata:\n  vpet_data:\n    name: Pixel\n  hibernationState:\n    hibernationStartTime: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := store.NewMemoryStore(0)

			_, err := Import(context.Background(), target, []byte(tt.doc), testNow)

			assert.ErrorIs(t, err, ErrInvalidBackup)
			_, found, _ := target.Load(context.Background(), pet.StorageKey)
			assert.False(t, found, "nothing written on failure")
		})
	}
}

func TestImportWithoutHibernation(t *testing.T) {
	ctx := context.Background()
	target := store.NewMemoryStore(0)

	_, err := Import(ctx, target, []byte("version: \"1.0\"\ndata:\n  vpet_data:\n    name: Byte\n    hunger: 40\n"), testNow)
	require.NoError(t, err)

	_, found, err := target.Load(ctx, hibernation.StorageKey)
	require.NoError(t, err)
	assert.False(t, found)

	raw, _, err := target.Load(ctx, pet.StorageKey)
	require.NoError(t, err)
	p, err := pet.Decode([]byte(raw), testNow)
	require.NoError(t, err)
	assert.Equal(t, "Byte", p.Name)
	assert.InDelta(t, 40, p.Hunger, 1e-9)
}
