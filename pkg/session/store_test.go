package session

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-budtender-be/pkg/catalog"
)

func TestGetCreatesAndReuses(t *testing.T) {
	store := NewStore(time.Minute)

	store.RecordShown("u1", "p1")
	assert.Equal(t, 1, store.Count())
	assert.True(t, store.ShownIds("u1")["p1"], "second Get must return the same session")
}

func TestTTLExpiry(t *testing.T) {
	store := NewStore(50 * time.Millisecond)

	store.RecordShown("idle", "p1")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, 0, store.Sweep())
	assert.Empty(t, store.ShownIds("idle"), "expired session must come back empty")
}

func TestActivityRefreshesTTL(t *testing.T) {
	store := NewStore(100 * time.Millisecond)

	store.RecordShown("active", "p1")
	for i := 0; i < 3; i++ {
		time.Sleep(60 * time.Millisecond)
		store.Get("active")
	}

	assert.True(t, store.ShownIds("active")["p1"], "touched session must survive past one TTL")
}

func TestUpdatePreferencesMerges(t *testing.T) {
	store := NewStore(time.Minute)

	store.UpdatePreferences("u1", map[string]string{"experience_level": "novice", "favorite_category": "edible"})
	merged := store.UpdatePreferences("u1", map[string]string{"experience_level": "experienced"})

	assert.Equal(t, "experienced", merged["experience_level"], "new value must overwrite")
	assert.Equal(t, "edible", merged["favorite_category"], "untouched keys must survive")
	assert.Equal(t, "experienced", store.Preference("u1", "experience_level"))
}

func TestPreferencesReturnsCopy(t *testing.T) {
	store := NewStore(time.Minute)

	store.UpdatePreferences("u1", map[string]string{"k": "v"})
	got := store.Preferences("u1")
	got["k"] = "mutated"

	assert.Equal(t, "v", store.Preference("u1", "k"))
}

func TestHistoryTruncation(t *testing.T) {
	store := NewStore(time.Minute)

	for i := 0; i < 15; i++ {
		store.AppendHistory("u1",
			Turn{Role: "user", Content: fmt.Sprintf("q%d", i)},
			Turn{Role: "assistant", Content: fmt.Sprintf("a%d", i)},
		)
	}

	history := store.History("u1")
	require.Len(t, history, maxHistoryEntries)
	assert.Equal(t, "q5", history[0].Content, "oldest pairs must be dropped first")
	assert.Equal(t, "a14", history[len(history)-1].Content)
}

func TestLastCriteria(t *testing.T) {
	store := NewStore(time.Minute)

	_, ok := store.LastCriteria("u1")
	assert.False(t, ok)

	store.SetLastCriteria("u1", catalog.SearchCriteria{
		Category:   "flower",
		Effects:    []string{"sleep"},
		ExcludeIds: map[string]bool{"stale": true},
	})

	c, ok := store.LastCriteria("u1")
	require.True(t, ok)
	assert.Equal(t, "flower", c.Category)
	assert.Nil(t, c.ExcludeIds, "stored criteria must not pin old exclusions")
}

func TestSnapshotRestoreRoundtrip(t *testing.T) {
	store := NewStore(time.Hour)
	store.UpdatePreferences("u1", map[string]string{"experience_level": "novice"})
	store.RecordShown("u1", "p1", "p2")
	store.AppendHistory("u1", Turn{Role: "user", Content: "hi"}, Turn{Role: "assistant", Content: "hello"})
	store.SetLastCriteria("u1", catalog.SearchCriteria{Category: "edible"})

	path := filepath.Join(t.TempDir(), "sessions-backup.json")
	require.NoError(t, store.SnapshotFile(path))

	fresh := NewStore(time.Hour)
	restored, err := fresh.RestoreFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, restored)

	assert.Equal(t, "novice", fresh.Preference("u1", "experience_level"))
	assert.True(t, fresh.ShownIds("u1")["p2"])
	assert.Len(t, fresh.History("u1"), 2)
	c, ok := fresh.LastCriteria("u1")
	require.True(t, ok)
	assert.Equal(t, "edible", c.Category)

	again, err := fresh.RestoreFile(path)
	require.NoError(t, err)
	assert.Zero(t, again, "snapshot file must be consumed on restore")
}

func TestRestoreSkipsExpired(t *testing.T) {
	store := NewStore(50 * time.Millisecond)
	store.RecordShown("u1", "p1")

	data, err := store.Snapshot()
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)

	fresh := NewStore(50 * time.Millisecond)
	restored, err := fresh.Restore(data)
	require.NoError(t, err)
	assert.Zero(t, restored)
}

func TestRestoreFileMissing(t *testing.T) {
	store := NewStore(time.Minute)

	restored, err := store.RestoreFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Zero(t, restored)
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", n%4)
			store.RecordShown(user, fmt.Sprintf("p%d", n))
			store.UpdatePreferences(user, map[string]string{"k": "v"})
			store.AppendHistory(user, Turn{Role: "user"}, Turn{Role: "assistant"})
			_ = store.ShownIds(user)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, store.Count())
	total := 0
	for i := 0; i < 4; i++ {
		total += len(store.ShownIds(fmt.Sprintf("u%d", i)))
	}
	assert.Equal(t, 20, total, "every recorded id must land in exactly one session")
}

func TestConcurrentFirstAccessSharesOneSession(t *testing.T) {
	store := NewStore(time.Minute)

	const workers = 16
	sessions := make([]*Session, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			sessions[n] = store.Get("fresh")
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, sessions[0], sessions[i], "all first requests must resolve to one session")
	}
}

func TestConcurrentFirstWritesAllSurvive(t *testing.T) {
	store := NewStore(time.Minute)

	const workers = 8
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			store.RecordShown("fresh", fmt.Sprintf("p%d", n))
		}(i)
	}
	close(start)
	wg.Wait()

	require.Equal(t, 1, store.Count())
	assert.Len(t, store.ShownIds("fresh"), workers,
		"ids recorded through racing first requests must not be lost")
}
