package localization_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penspanic/Datra-sub001/pkg/localization"
	"github.com/penspanic/Datra-sub001/pkg/provider"
	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

const keyTableCSV = `Key,Description
item_potion_name,Shop name of the small potion
item_sword_name,Shop name of the iron sword
greeting,Login greeting with a name placeholder
farewell,Logout message
empty_text,Entry whose default text is blank
`

const enTableJSON = `[
  {"Key": "item_potion_name", "Text": "Small HP Potion"},
  {"Key": "item_sword_name", "Text": "Iron Sword"},
  {"Key": "greeting", "Text": "Hello, {{name}}!"},
  {"Key": "empty_text", "Text": ""},
  {"Key": "rogue_key", "Text": "Present only in the language file"}
]`

const deTableJSON = `[
  {"Key": "item_potion_name", "Text": "Kleiner HP-Trank"},
  {"Key": "greeting", "Text": "Hallo, {{name}}!"}
]`

func seededProvider(t *testing.T) *provider.Memory {
	t.Helper()
	p := provider.NewMemory()
	require.NoError(t, p.Seed(map[string]string{
		"Localizations/LocalizationKeys.csv": keyTableCSV,
		"Localizations/en.json":              enTableJSON,
		"Localizations/de.json":              deTableJSON,
		"Localizations/2024-snapshot.json":   "[]",
		"Localizations/notes.txt":            "not a table",
	}))
	return p
}

func loadedSource(t *testing.T, opts ...localization.Option) (*localization.Source, *provider.Memory) {
	t.Helper()
	src, err := localization.New(opts...)
	require.NoError(t, err)
	p := seededProvider(t)
	require.NoError(t, src.Load(context.Background(), p, serializer.NewDefaultFactory()))
	return src, p
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates source with defaults", func(t *testing.T) {
		t.Parallel()
		src, err := localization.New()
		require.NoError(t, err)

		assert.Equal(t, "localization", src.Name())
		assert.Equal(t, localization.DefaultKeyTablePath, src.Path())
		assert.Equal(t, "en", src.DefaultLanguage())
		assert.Equal(t, "en", src.ActiveLanguage())
		assert.Equal(t, []string{"en"}, src.Languages())
		assert.False(t, src.Loaded())
		assert.Zero(t, src.Count())
		assert.False(t, src.HasKey("greeting"))
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()
		src, err := localization.New(
			localization.WithName("shop-localization"),
			localization.WithKeyTablePath("Loc/Keys.csv"),
			localization.WithDataFolder("Loc"),
			localization.WithScanPattern("*.yaml"),
			localization.WithDefaultLanguage("ko"),
		)
		require.NoError(t, err)

		assert.Equal(t, "shop-localization", src.Name())
		assert.Equal(t, "Loc/Keys.csv", src.Path())
		assert.Equal(t, "ko", src.DefaultLanguage())
		assert.Equal(t, "ko", src.ActiveLanguage())
	})

	t.Run("canonicalizes the default language", func(t *testing.T) {
		t.Parallel()
		src, err := localization.New(localization.WithDefaultLanguage("EN_us"))
		require.NoError(t, err)
		assert.Equal(t, "en-US", src.DefaultLanguage())
		assert.Equal(t, "en-US", src.ActiveLanguage())
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name    string
			opt     localization.Option
			wantErr error
		}{
			{"empty name", localization.WithName(""), localization.ErrInvalidConfig},
			{"empty key table path", localization.WithKeyTablePath(""), localization.ErrInvalidConfig},
			{"empty data folder", localization.WithDataFolder(""), localization.ErrInvalidConfig},
			{"empty scan pattern", localization.WithScanPattern(""), localization.ErrInvalidConfig},
			{"empty default language", localization.WithDefaultLanguage(""), localization.ErrInvalidLanguage},
			{"malformed default language", localization.WithDefaultLanguage("not a tag"), localization.ErrInvalidLanguage},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := localization.New(tt.opt)
				require.Error(t, err)
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "failed to apply option")
			})
		}
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	factory := serializer.NewDefaultFactory()

	t.Run("loads key table and all languages", func(t *testing.T) {
		t.Parallel()
		src, _ := loadedSource(t)

		assert.True(t, src.Loaded())
		assert.Equal(t, 5, src.Count())
		assert.True(t, src.HasKey("greeting"))
		assert.False(t, src.HasKey("rogue_key"))
		assert.Equal(t, []string{"en", "de"}, src.Languages())
	})

	t.Run("skips files that do not name a language", func(t *testing.T) {
		t.Parallel()
		src, _ := loadedSource(t)
		assert.NotContains(t, src.Languages(), "2024-snapshot")
	})

	t.Run("missing key table fails", func(t *testing.T) {
		t.Parallel()
		src, err := localization.New()
		require.NoError(t, err)

		err = src.Load(ctx, provider.NewMemory(), factory)
		require.ErrorIs(t, err, provider.ErrNotFound)
		assert.Contains(t, err.Error(), "load key table")
		assert.False(t, src.Loaded())
	})

	t.Run("missing data folder loads with no languages", func(t *testing.T) {
		t.Parallel()
		p := provider.NewMemory()
		require.NoError(t, p.Seed(map[string]string{
			"Localizations/LocalizationKeys.csv": keyTableCSV,
		}))
		src, err := localization.New()
		require.NoError(t, err)

		require.NoError(t, src.Load(ctx, p, factory))
		assert.True(t, src.Loaded())
		assert.Equal(t, []string{"en"}, src.Languages())
		assert.Equal(t, "greeting", src.Resolve("greeting"))
	})

	t.Run("malformed language table fails and keeps prior state", func(t *testing.T) {
		t.Parallel()
		src, p := loadedSource(t)
		require.NoError(t, src.SetLanguage(ctx, "de"))

		require.NoError(t, p.SaveText(ctx, "Localizations/de.json", "{not json"))
		err := src.Load(ctx, p, factory)
		require.ErrorIs(t, err, serializer.ErrMalformedData)
		assert.Contains(t, err.Error(), "load language de")

		assert.True(t, src.Loaded())
		assert.Equal(t, "Kleiner HP-Trank", src.Resolve("item_potion_name"))
	})

	t.Run("duplicate canonical names keep the first sorted file", func(t *testing.T) {
		t.Parallel()
		p := provider.NewMemory()
		require.NoError(t, p.Seed(map[string]string{
			"Localizations/LocalizationKeys.csv": "Key,Description\nmarker,Duplicate-detection probe\n",
			"Localizations/en-US.json":           `[{"Key": "marker", "Text": "first"}]`,
			"Localizations/en-us.json":           `[{"Key": "marker", "Text": "second"}]`,
		}))
		src, err := localization.New()
		require.NoError(t, err)

		require.NoError(t, src.Load(ctx, p, factory))
		assert.Equal(t, []string{"en", "en-US"}, src.Languages())

		require.NoError(t, src.SetLanguage(ctx, "en-US"))
		assert.Equal(t, "first", src.Resolve("marker"))
	})
}

func TestSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	factory := serializer.NewDefaultFactory()

	t.Run("save before load fails", func(t *testing.T) {
		t.Parallel()
		src, err := localization.New()
		require.NoError(t, err)
		require.ErrorIs(t, src.Save(ctx, provider.NewMemory(), factory), localization.ErrNotLoaded)
	})

	t.Run("round-trips through a fresh provider", func(t *testing.T) {
		t.Parallel()
		src, _ := loadedSource(t)

		dst := provider.NewMemory()
		require.NoError(t, src.Save(ctx, dst, factory))
		assert.True(t, dst.Exists(ctx, "Localizations/LocalizationKeys.csv"))
		assert.True(t, dst.Exists(ctx, "Localizations/en.json"))
		assert.True(t, dst.Exists(ctx, "Localizations/de.json"))

		reloaded, err := localization.New()
		require.NoError(t, err)
		require.NoError(t, reloaded.Load(ctx, dst, factory))

		assert.Equal(t, "Small HP Potion", reloaded.Resolve("item_potion_name"))
		require.NoError(t, reloaded.SetLanguage(ctx, "de"))
		assert.Equal(t, "Kleiner HP-Trank", reloaded.Resolve("item_potion_name"))
		assert.Equal(t, "Iron Sword", reloaded.Resolve("item_sword_name"))
	})

	t.Run("lazy mode saves only fetched tables", func(t *testing.T) {
		t.Parallel()
		src, _ := loadedSource(t, localization.WithLazyLanguages())

		dst := provider.NewMemory()
		require.NoError(t, src.Save(ctx, dst, factory))
		assert.True(t, dst.Exists(ctx, "Localizations/en.json"))
		assert.False(t, dst.Exists(ctx, "Localizations/de.json"))

		require.NoError(t, src.SetLanguage(ctx, "de"))
		require.NoError(t, src.Save(ctx, dst, factory))
		assert.True(t, dst.Exists(ctx, "Localizations/de.json"))
	})
}
