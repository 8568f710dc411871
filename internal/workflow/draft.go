package workflow

import (
	"context"
	"sync"
	"time"
)

// DraftTTL is how long a persisted draft stays valid. A draft loaded after
// its TTL is discarded and the wizard starts fresh.
const DraftTTL = 30 * 24 * time.Hour

// Snapshot is the persistable mirror of a workflow's state. It is advisory
// only: the authoritative data lives server-side once a step's upload is
// confirmed.
type Snapshot struct {
	CampaignType string                 `json:"campaign_type"`
	Payload      map[string]interface{} `json:"payload"`
	CurrentStep  int                    `json:"current_step"`
	Completed    []string               `json:"completed"`
	UpgradeMode  bool                   `json:"upgrade_mode"`
	SavedAt      time.Time              `json:"saved_at"`
}

// Expired reports whether the snapshot is past its TTL at the given time.
func (s Snapshot) Expired(now time.Time) bool {
	return now.Sub(s.SavedAt) > DraftTTL
}

// Snapshot captures the workflow state for draft persistence.
func (w *Workflow) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		CampaignType: w.campaignType,
		Payload:      w.Payload(),
		CurrentStep:  w.cursor,
		Completed:    w.CompletedSteps(),
		UpgradeMode:  w.upgradeMode,
		SavedAt:      now,
	}
}

// Restore rebuilds a workflow from a snapshot. The completed-step set and
// cursor come from the snapshot rather than being re-derived, so a step the
// user completed stays completed even if its payload keys were pruned.
func Restore(snap Snapshot, opts ...Option) (*Workflow, error) {
	if snap.UpgradeMode {
		opts = append(opts, WithUpgradeMode())
	}
	w, err := New(snap.CampaignType, snap.Payload, opts...)
	if err != nil {
		return nil, err
	}
	for _, name := range snap.Completed {
		if w.stepIndex(name) >= 0 {
			w.completed[name] = true
			w.visited[name] = true
		}
	}
	w.GoTo(snap.CurrentStep)
	return w, nil
}

// Store persists drafts keyed by user and campaign key. The campaign key is
// the campaign id, or DraftKeyNew for a campaign still being created.
// Implementations own expiry: Get never returns an expired draft.
type Store interface {
	Get(ctx context.Context, userID, campaignKey string) (*Snapshot, error)
	Put(ctx context.Context, userID, campaignKey string, snap Snapshot) error
	Delete(ctx context.Context, userID, campaignKey string) error
}

// MemoryStore is an in-process Store. It backs tests and single-node
// deployments without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Snapshot
	now    func() time.Time
}

// NewMemoryStore builds an empty in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]Snapshot),
		now:    time.Now,
	}
}

func (m *MemoryStore) key(userID, campaignKey string) string {
	return userID + "/" + campaignKey
}

// Get returns the stored draft, or nil when none exists or it has expired.
// An expired draft is removed on read.
func (m *MemoryStore) Get(_ context.Context, userID, campaignKey string) (*Snapshot, error) {
	k := m.key(userID, campaignKey)

	m.mu.RLock()
	snap, ok := m.drafts[k]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if snap.Expired(m.now()) {
		m.mu.Lock()
		delete(m.drafts, k)
		m.mu.Unlock()
		return nil, nil
	}
	return &snap, nil
}

// Put stores the draft, overwriting any previous snapshot under the key.
func (m *MemoryStore) Put(_ context.Context, userID, campaignKey string, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[m.key(userID, campaignKey)] = snap
	return nil
}

// Delete removes the draft under the key, if any.
func (m *MemoryStore) Delete(_ context.Context, userID, campaignKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, m.key(userID, campaignKey))
	return nil
}
