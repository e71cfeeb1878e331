package datra_test

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	datra "github.com/penspanic/Datra-sub001"
	"github.com/penspanic/Datra-sub001/pkg/localization"
	"github.com/penspanic/Datra-sub001/pkg/provider"
	"github.com/penspanic/Datra-sub001/pkg/repository"
	"github.com/penspanic/Datra-sub001/pkg/serializer"
)

// blockingProvider stalls loads of one path until the context is cancelled,
// standing in for a slow backend while a sibling table fails.
type blockingProvider struct {
	*provider.Memory
	block    string
	released chan struct{}
}

func (p *blockingProvider) LoadText(ctx context.Context, path string) (string, error) {
	if path == p.block {
		<-ctx.Done()
		close(p.released)
		return "", ctx.Err()
	}
	return p.Memory.LoadText(ctx, path)
}

// orderProvider records the order in which table files are requested.
type orderProvider struct {
	*provider.Memory
	mu    sync.Mutex
	paths []string
}

func (p *orderProvider) LoadText(ctx context.Context, path string) (string, error) {
	p.mu.Lock()
	p.paths = append(p.paths, path)
	p.mu.Unlock()
	return p.Memory.LoadText(ctx, path)
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads tables and localization together", func(t *testing.T) {
		t.Parallel()
		shop := shopTable(t)
		chars := characterTable(t)
		loc, err := localization.New()
		require.NoError(t, err)

		c, err := datra.New("game", seededGameProvider(t),
			datra.WithTables(shop, chars),
			datra.WithLocalization(loc),
		)
		require.NoError(t, err)

		require.NoError(t, c.LoadAll(ctx))
		assert.True(t, c.Loaded())

		item, err := shop.Get("potion_hp_small")
		require.NoError(t, err)
		assert.Equal(t, "Small HP Potion", item.Name)
		assert.Equal(t, 100, item.Price)

		assert.Equal(t, 2, chars.Len())
		hero, err := chars.Get("hero")
		require.NoError(t, err)
		assert.Equal(t, 5, hero.Level)

		assert.True(t, loc.Loaded())
		assert.Equal(t, "Small HP Potion", loc.Resolve("item_potion_name"))
	})

	t.Run("aborts on first failure and cancels siblings", func(t *testing.T) {
		t.Parallel()
		prov := &blockingProvider{
			Memory:   seededGameProvider(t),
			block:    "GameData/ShopItems.json",
			released: make(chan struct{}),
		}
		shop := shopTable(t)
		missing, err := repository.New[string, character]("GameData/Missing.csv",
			repository.WithName("missing"))
		require.NoError(t, err)

		c, err := datra.New("game", prov, datra.WithTables(shop, missing))
		require.NoError(t, err)

		err = c.LoadAll(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, provider.ErrNotFound)
		assert.Contains(t, err.Error(), "datra: load missing (GameData/Missing.csv)")

		select {
		case <-prov.released:
		case <-time.After(2 * time.Second):
			t.Fatal("blocked sibling load was not cancelled")
		}

		assert.False(t, c.Loaded())
		assert.False(t, shop.Loaded())
	})

	t.Run("failed reload keeps prior table state", func(t *testing.T) {
		t.Parallel()
		prov := seededGameProvider(t)
		shop := shopTable(t)
		c, err := datra.New("game", prov, datra.WithTables(shop))
		require.NoError(t, err)
		require.NoError(t, c.LoadAll(ctx))

		require.NoError(t, prov.Seed(map[string]string{
			"GameData/ShopItems.json": "[not json",
		}))

		err = c.LoadAll(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, serializer.ErrMalformedData)
		assert.False(t, c.Loaded(), "a failed load leaves the whole context unusable")

		item, err := shop.Get("potion_hp_small")
		require.NoError(t, err, "the table itself keeps its previous data")
		assert.Equal(t, 100, item.Price)
	})

	t.Run("sequential load follows declaration order", func(t *testing.T) {
		t.Parallel()
		prov := &orderProvider{Memory: provider.NewMemory()}
		require.NoError(t, prov.Seed(map[string]string{
			"GameData/ShopItems.json":  shopItemsJSON,
			"GameData/ShopItemsB.json": shopItemsJSON,
			"GameData/Characters.csv":  charactersCSV,
		}))

		shop := shopTable(t)
		chars := characterTable(t)
		shopB, err := repository.New[string, shopItem]("GameData/ShopItemsB.json",
			repository.WithName("shop_items_b"))
		require.NoError(t, err)

		c, err := datra.New("game", prov,
			datra.WithTables(shop, chars, shopB),
			datra.WithSequentialLoad(),
		)
		require.NoError(t, err)
		require.NoError(t, c.LoadAll(ctx))

		assert.Equal(t, []string{
			"GameData/ShopItems.json",
			"GameData/Characters.csv",
			"GameData/ShopItemsB.json",
		}, prov.paths)
	})

	t.Run("independent contexts load concurrently", func(t *testing.T) {
		t.Parallel()
		provA := provider.NewMemory()
		require.NoError(t, provA.Seed(map[string]string{
			"GameData/ShopItems.json": shopItemsJSON,
		}))
		provB := provider.NewMemory()
		require.NoError(t, provB.Seed(map[string]string{
			"GameData/ShopItems.json": `[
  {"id": "bomb", "name": "Bomb", "price": 300},
  {"id": "rope", "name": "Rope", "price": 20},
  {"id": "torch", "name": "Torch", "price": 15}
]`,
		}))

		factory := serializer.NewDefaultFactory()
		shopA := shopTable(t)
		shopB := shopTable(t)

		a, err := datra.New("region-a", provA,
			datra.WithTables(shopA), datra.WithFactory(factory))
		require.NoError(t, err)
		b, err := datra.New("region-b", provB,
			datra.WithTables(shopB), datra.WithFactory(factory))
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs[0] = a.LoadAll(ctx)
		}()
		go func() {
			defer wg.Done()
			errs[1] = b.LoadAll(ctx)
		}()
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		assert.Equal(t, 2, shopA.Len())
		assert.Equal(t, 3, shopB.Len())

		potion, err := shopA.Get("potion_hp_small")
		require.NoError(t, err)
		assert.Equal(t, 100, potion.Price)
		assert.False(t, shopB.Has("potion_hp_small"), "contexts must not share records")
	})
}

func TestSaveAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("requires a loaded context", func(t *testing.T) {
		t.Parallel()
		c, err := datra.New("game", seededGameProvider(t), datra.WithTables(shopTable(t)))
		require.NoError(t, err)

		require.ErrorIs(t, c.SaveAll(ctx), datra.ErrNotLoaded)
	})

	t.Run("round trips edits through the provider", func(t *testing.T) {
		t.Parallel()
		prov := seededGameProvider(t)
		shop := shopTable(t)
		chars := characterTable(t)
		c, err := datra.New("game", prov, datra.WithTables(shop, chars))
		require.NoError(t, err)
		require.NoError(t, c.LoadAll(ctx))

		shop.Put(shopItem{ID: "elixir", Name: "Elixir", Price: 2500})
		require.NoError(t, c.SaveAll(ctx))

		reloaded := shopTable(t)
		fresh, err := datra.New("game", prov, datra.WithTables(reloaded))
		require.NoError(t, err)
		require.NoError(t, fresh.LoadAll(ctx))

		assert.Equal(t, 3, reloaded.Len())
		elixir, err := reloaded.Get("elixir")
		require.NoError(t, err)
		assert.Equal(t, 2500, elixir.Price)
	})

	t.Run("annotates failures with table identity", func(t *testing.T) {
		t.Parallel()
		bundle := fstest.MapFS{
			"GameData/ShopItems.json": &fstest.MapFile{Data: []byte(shopItemsJSON)},
		}
		prov, err := provider.NewIOFS(bundle, "bundle")
		require.NoError(t, err)

		shop := shopTable(t)
		c, err := datra.New("game", prov, datra.WithTables(shop))
		require.NoError(t, err)
		require.NoError(t, c.LoadAll(ctx))

		err = c.SaveAll(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, provider.ErrReadOnly)
		assert.Contains(t, err.Error(), "datra: save shop_items (GameData/ShopItems.json)")
	})
}
