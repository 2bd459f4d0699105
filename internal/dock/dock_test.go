package dock

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/store"
)

type chromeRecorder struct {
	applied []Chrome
}

func (r *chromeRecorder) ApplyChrome(c Chrome) { r.applied = append(r.applied, c) }

func (r *chromeRecorder) last() Chrome { return r.applied[len(r.applied)-1] }

// failingStore fails reads, writes, or both.
type failingStore struct {
	getErr error
	setErr error
}

func (f failingStore) Get(string) (string, bool, error) { return "", false, f.getErr }
func (f failingStore) Set(string, string) error        { return f.setErr }

func TestChromeFor(t *testing.T) {
	assert.Equal(t, Chrome{Minimized: true, BodyVisible: false, Glyph: "▲", ReservedRows: 2}, ChromeFor(true))
	assert.Equal(t, Chrome{Minimized: false, BodyVisible: true, Glyph: "_", ReservedRows: 14}, ChromeFor(false))
}

func TestDock_RestoreAbsentIsExpanded(t *testing.T) {
	s := store.NewMemoryStore()
	view := &chromeRecorder{}
	d := New(s, view, nil)

	require.NoError(t, d.Restore())

	assert.False(t, d.Minimized())
	assert.Equal(t, ChromeFor(false), view.last())
	v, ok, _ := s.Get(MinimizedKey)
	assert.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestDock_RestoreMinimized(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(MinimizedKey, "1"))
	view := &chromeRecorder{}

	d := New(s, view, nil)
	require.NoError(t, d.Restore())

	assert.True(t, d.Minimized())
	assert.Equal(t, ChromeFor(true), view.last())
}

func TestDock_RestoreUnknownValueIsExpanded(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(MinimizedKey, "yes"))

	d := New(s, nil, nil)
	require.NoError(t, d.Restore())
	assert.False(t, d.Minimized())
}

func TestDock_TogglePersistsAcrossRestarts(t *testing.T) {
	s := store.NewMemoryStore()
	d := New(s, &chromeRecorder{}, nil)
	require.NoError(t, d.Restore())

	require.NoError(t, d.Toggle())
	assert.True(t, d.Minimized())
	v, _, _ := s.Get(MinimizedKey)
	assert.Equal(t, "1", v)

	view := &chromeRecorder{}
	restarted := New(s, view, nil)
	require.NoError(t, restarted.Restore())
	assert.True(t, restarted.Minimized())
	assert.Equal(t, "▲", view.last().Glyph)

	require.NoError(t, restarted.Toggle())
	v, _, _ = s.Get(MinimizedKey)
	assert.Equal(t, "0", v)
	assert.Equal(t, "_", view.last().Glyph)
}

func TestDock_WritesEveryChange(t *testing.T) {
	s := store.NewMemoryStore()
	d := New(s, nil, nil)

	require.NoError(t, d.SetMinimized(false))
	require.NoError(t, d.SetMinimized(false))
	require.NoError(t, d.SetMinimized(true))

	assert.Equal(t, 3, s.Writes())
}

func TestDock_StoreErrors(t *testing.T) {
	view := &chromeRecorder{}
	d := New(failingStore{getErr: stderrors.New("disk gone")}, view, nil)

	err := d.Restore()
	require.Error(t, err)
	assert.False(t, d.Minimized())
	assert.Equal(t, ChromeFor(false), view.last(), "chrome is applied even when the read fails")

	d = New(failingStore{setErr: stderrors.New("read-only")}, view, nil)
	err = d.Toggle()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrStore))
	assert.True(t, d.Minimized(), "the view still changes when saving fails")
}

func TestDock_ConcurrentTogglesAreNotLost(t *testing.T) {
	s := store.NewMemoryStore()
	d := New(s, nil, nil)

	const toggles = 50
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.Toggle())
		}()
	}
	wg.Wait()

	assert.False(t, d.Minimized(), "an even number of flips ends expanded")
	v, _, err := s.Get(MinimizedKey)
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}
