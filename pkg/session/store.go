package session

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"virtual-budtender-be/pkg/catalog"
)

const (
	// DefaultTTL evicts sessions idle for a day.
	DefaultTTL = 24 * time.Hour

	// maxHistoryEntries bounds the conversation log to the last 10
	// user/assistant pairs.
	maxHistoryEntries = 20
)

// Turn is one half of a conversation exchange.
type Turn struct {
	Role        string    `json:"role"` // "user" | "assistant"
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Recommended []string  `json:"recommended,omitempty"` // product names shown with this turn
}

// Session is the per-user mutable state. All mutation goes through the
// Store, which serializes access with the session's own lock; callers
// never hold a Session beyond a single request.
type Session struct {
	mu sync.Mutex

	UserId       string                  `json:"user_id"`
	Preferences  map[string]string       `json:"preferences"`
	Shown        map[string]bool         `json:"shown"`
	History      []Turn                  `json:"history"`
	LastCriteria *catalog.SearchCriteria `json:"last_criteria,omitempty"`
	LastActive   time.Time               `json:"last_active"`
}

func newSession(userId string) *Session {
	return &Session{
		UserId:      userId,
		Preferences: map[string]string{},
		Shown:       map[string]bool{},
		History:     []Turn{},
		LastActive:  time.Now(),
	}
}

// sessionState is the lock-free mirror used for snapshots.
type sessionState struct {
	UserId       string                  `json:"user_id"`
	Preferences  map[string]string       `json:"preferences"`
	Shown        map[string]bool         `json:"shown"`
	History      []Turn                  `json:"history"`
	LastCriteria *catalog.SearchCriteria `json:"last_criteria,omitempty"`
	LastActive   time.Time               `json:"last_active"`
}

// Store owns every session. Expiry is handled by the cache: reads past
// the TTL miss, and the janitor sweeps idle entries in the background
// with the same predicate (last activity older than the TTL).
type Store struct {
	mu    sync.Mutex // serializes session creation so concurrent first requests share one Session
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a session store with the given idle TTL.
// A non-positive TTL falls back to the default.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// Get returns the user's session, creating an empty one on first
// access, and refreshes its expiry. It never fails. The store lock
// makes miss-then-create atomic; without it two concurrent first
// requests would each create a session and one would be orphaned.
func (s *Store) Get(userId string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if x, found := s.cache.Get(userId); found {
		sess := x.(*Session)
		sess.mu.Lock()
		sess.LastActive = time.Now()
		sess.mu.Unlock()
		s.cache.Set(userId, sess, cache.DefaultExpiration)
		return sess
	}

	sess := newSession(userId)
	s.cache.Set(userId, sess, cache.DefaultExpiration)
	return sess
}

// UpdatePreferences shallow-merges the given preferences; new keys
// overwrite old ones. Returns a copy of the merged map.
func (s *Store) UpdatePreferences(userId string, prefs map[string]string) map[string]string {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	for k, v := range prefs {
		sess.Preferences[k] = v
	}
	return copyPrefs(sess.Preferences)
}

// Preferences returns a copy of the user's preference map.
func (s *Store) Preferences(userId string) map[string]string {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return copyPrefs(sess.Preferences)
}

// Preference returns one preference value, or "" when unset.
func (s *Store) Preference(userId, key string) string {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Preferences[key]
}

// RecordShown adds identifiers to the user's exclusion set so future
// searches omit them.
func (s *Store) RecordShown(userId string, ids ...string) {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	for _, id := range ids {
		sess.Shown[id] = true
	}
}

// ShownIds returns a copy of the user's exclusion set, safe to hand to
// search criteria.
func (s *Store) ShownIds(userId string) map[string]bool {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make(map[string]bool, len(sess.Shown))
	for id := range sess.Shown {
		out[id] = true
	}
	return out
}

// AppendHistory appends a user/assistant turn pair and truncates the log
// to the most recent entries.
func (s *Store) AppendHistory(userId string, userTurn, assistantTurn Turn) {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.History = append(sess.History, userTurn, assistantTurn)
	if len(sess.History) > maxHistoryEntries {
		sess.History = sess.History[len(sess.History)-maxHistoryEntries:]
	}
}

// History returns a copy of the conversation log.
func (s *Store) History(userId string) []Turn {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]Turn, len(sess.History))
	copy(out, sess.History)
	return out
}

// SetLastCriteria remembers the user's last product search so a
// follow-up "show me more" can rerun it against the grown exclusion set.
func (s *Store) SetLastCriteria(userId string, c catalog.SearchCriteria) {
	c.ExcludeIds = nil // exclusions are rebuilt from the shown set
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.LastCriteria = &c
}

// LastCriteria returns the user's last search criteria, if any.
func (s *Store) LastCriteria(userId string) (catalog.SearchCriteria, bool) {
	sess := s.Get(userId)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.LastCriteria == nil {
		return catalog.SearchCriteria{}, false
	}
	return *sess.LastCriteria, true
}

// Sweep evicts every session idle for longer than the TTL and returns
// the surviving count. The cache janitor does the same in the
// background; this exists for callers that want eviction now.
func (s *Store) Sweep() int {
	s.cache.DeleteExpired()
	return s.cache.ItemCount()
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

// Snapshot serializes every live session. This is the only persistence
// hook: the surrounding service writes it on shutdown.
func (s *Store) Snapshot() ([]byte, error) {
	states := []sessionState{}
	for _, entry := range s.cache.Items() {
		sess := entry.Object.(*Session)
		sess.mu.Lock()
		states = append(states, sessionState{
			UserId:       sess.UserId,
			Preferences:  copyPrefs(sess.Preferences),
			Shown:        copyShown(sess.Shown),
			History:      append([]Turn{}, sess.History...),
			LastCriteria: sess.LastCriteria,
			LastActive:   sess.LastActive,
		})
		sess.mu.Unlock()
	}
	return json.Marshal(states)
}

// Restore loads a snapshot, skipping sessions already past the TTL.
// Returns the number restored.
func (s *Store) Restore(data []byte) (int, error) {
	var states []sessionState
	if err := json.Unmarshal(data, &states); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, st := range states {
		if time.Since(st.LastActive) > s.ttl {
			continue
		}
		sess := newSession(st.UserId)
		if st.Preferences != nil {
			sess.Preferences = st.Preferences
		}
		if st.Shown != nil {
			sess.Shown = st.Shown
		}
		sess.History = st.History
		sess.LastCriteria = st.LastCriteria
		sess.LastActive = st.LastActive
		s.cache.Set(st.UserId, sess, s.ttl-time.Since(st.LastActive))
		restored++
	}
	return restored, nil
}

// SnapshotFile writes the snapshot to disk.
func (s *Store) SnapshotFile(path string) error {
	data, err := s.Snapshot()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// RestoreFile loads a snapshot from disk and removes the file so stale
// state is never restored twice. A missing file is not an error.
func (s *Store) RestoreFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	restored, err := s.Restore(data)
	if err != nil {
		return 0, err
	}
	_ = os.Remove(path)
	return restored, nil
}

func copyPrefs(prefs map[string]string) map[string]string {
	out := make(map[string]string, len(prefs))
	for k, v := range prefs {
		out[k] = v
	}
	return out
}

func copyShown(shown map[string]bool) map[string]bool {
	out := make(map[string]bool, len(shown))
	for k, v := range shown {
		out[k] = v
	}
	return out
}
