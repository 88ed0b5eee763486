package storage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slategallery/internal/loop"
	"slategallery/internal/notify"
)

type fixture struct {
	loop  *loop.Manual
	store *MemoryStore
	bar   *notify.Bar
	sets  map[Kind]map[string]bool
	p     *Persister
}

func newFixture(t *testing.T, store Store) *fixture {
	t.Helper()
	f := &fixture{
		loop: loop.NewManual(loop.Options{}),
		bar:  notify.NewBar(10, zerolog.Nop()),
		sets: map[Kind]map[string]bool{Selections: {}, Hidden: {}},
	}
	if ms, ok := store.(*MemoryStore); ok {
		f.store = ms
	}
	f.p = NewPersister(PersisterOptions{
		Store:     store,
		PagePath:  "/g/index.html",
		Scheduler: f.loop,
		Notifier:  f.bar,
		Logger:    zerolog.Nop(),
	}, func(k Kind) map[string]bool { return f.sets[k] })
	return f
}

func TestSaveIsDebounced(t *testing.T) {
	f := newFixture(t, NewMemoryStore(0))
	require.True(t, f.p.Available())

	f.sets[Selections]["/a.jpg"] = true
	f.p.Save(Selections)
	f.sets[Selections]["/b.jpg"] = true
	f.p.Save(Selections)

	_, ok, _ := f.store.Get(f.p.Keys().Selections)
	assert.False(t, ok, "nothing is written before the delay")

	f.loop.Advance(DefaultSaveDelay)
	raw, ok, _ := f.store.Get(f.p.Keys().Selections)
	require.True(t, ok)
	assert.JSONEq(t, `{"/a.jpg":true,"/b.jpg":true}`, string(raw))

	_, ok, _ = f.store.Get(f.p.Keys().Hidden)
	assert.False(t, ok, "hidden set was never saved")
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t, NewMemoryStore(0))
	f.sets[Hidden]["/x.jpg"] = true
	f.p.Save(Hidden)
	f.p.Flush()

	// A new persister on the same store simulates a reload.
	g := newFixture(t, f.store)
	assert.Equal(t, map[string]bool{"/x.jpg": true}, g.p.Restore(Hidden))
	assert.Empty(t, g.p.Restore(Selections))
}

func TestRestoreCorruptData(t *testing.T) {
	store := NewMemoryStore(0)
	keys := KeysFor("/g/index.html")
	require.NoError(t, store.Set(keys.Selections, []byte("{not json")))
	require.NoError(t, store.Set(keys.Hidden, []byte(`{"/a.jpg":true,"/b.jpg":false}`)))

	f := newFixture(t, store)
	assert.Empty(t, f.p.Restore(Selections))
	assert.Equal(t, map[string]bool{"/a.jpg": true}, f.p.Restore(Hidden))
}

func TestQuotaFailureWarnsOnce(t *testing.T) {
	f := newFixture(t, NewMemoryStore(40))
	for i := 0; i < 10; i++ {
		f.sets[Selections][string(rune('a'+i))+"/very/long/path.jpg"] = true
	}
	f.p.Save(Selections)
	f.p.Save(Hidden)
	f.loop.Advance(time.Second)

	assert.False(t, f.p.Available())
	msgs := f.bar.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.Warning, msgs[0].Level)
	assert.NotEmpty(t, f.bar.Announcement())

	// Further saves are ignored silently.
	f.p.Save(Selections)
	f.loop.Advance(time.Second)
	assert.Len(t, f.bar.Messages(), 1)
	assert.Equal(t, 0, f.loop.PendingTimers())
}

func TestUnavailableStoreShortCircuits(t *testing.T) {
	f := newFixture(t, DisabledStore{})
	assert.False(t, f.p.Available())
	f.sets[Selections]["/a.jpg"] = true
	f.p.Save(Selections)
	assert.Equal(t, 0, f.loop.PendingTimers())
	assert.Empty(t, f.p.Restore(Selections))
	assert.Empty(t, f.bar.Messages(), "a failed availability check is not a user-facing fault")
}
