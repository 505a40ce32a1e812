package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/storyforge/internal/core/narrative"
	"github.com/example/storyforge/internal/core/validation"
	"github.com/example/storyforge/internal/ports/secondary"
)

// memState is one consistent copy of every collection.
type memState struct {
	episodes  map[string]secondary.EpisodeRecord
	campaigns map[string]secondary.CampaignRecord
	snapshots map[string]secondary.SnapshotRecord
	settings  map[string]secondary.SettingsRecord
}

func newMemState() *memState {
	return &memState{
		episodes:  map[string]secondary.EpisodeRecord{},
		campaigns: map[string]secondary.CampaignRecord{},
		snapshots: map[string]secondary.SnapshotRecord{},
		settings:  map[string]secondary.SettingsRecord{},
	}
}

func (s *memState) clone() *memState {
	out := newMemState()
	for k, v := range s.episodes {
		out.episodes[k] = v
	}
	for k, v := range s.campaigns {
		out.campaigns[k] = v
	}
	for k, v := range s.snapshots {
		out.snapshots[k] = v
	}
	for k, v := range s.settings {
		out.settings[k] = v
	}
	return out
}

// memDB is an in-memory implementation of every secondary storage port.
// UnitOfWork.Do stages writes on a copy and swaps it in only on success.
type memDB struct {
	mu    sync.Mutex
	state *memState

	seq          int64
	episodeLists int

	snapshotCreateErr error
	snapshotListErr   error
	snapshotDeleteErr error
	pingErr           error
}

func newMemDB() *memDB {
	return &memDB{state: newMemState()}
}

// Stores returns repositories that write straight to the live state.
func (db *memDB) Stores() secondary.Stores {
	return db.storesFor(nil)
}

func (db *memDB) storesFor(staged *memState) secondary.Stores {
	h := &memHandle{db: db, staged: staged}
	return secondary.Stores{
		Episodes:  &memEpisodes{h},
		Campaigns: &memCampaigns{h},
		Snapshots: &memSnapshots{h},
		Settings:  &memSettings{h},
	}
}

func (db *memDB) Do(ctx context.Context, fn func(ctx context.Context, stores secondary.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	staged := db.state.clone()
	db.mu.Unlock()

	if err := fn(ctx, db.storesFor(staged)); err != nil {
		return err
	}

	db.mu.Lock()
	db.state = staged
	db.mu.Unlock()
	return nil
}

func (db *memDB) snapshotsOf(episodeID string) []secondary.SnapshotRecord {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []secondary.SnapshotRecord
	for _, s := range db.state.snapshots {
		if s.EpisodeID == episodeID {
			out = append(out, s)
		}
	}
	return out
}

func (db *memDB) addSnapshot(id, episodeID, typ string, ts time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.seq++
	db.state.snapshots[id] = secondary.SnapshotRecord{ID: id, EpisodeID: episodeID, Type: typ, Timestamp: ts, Seq: db.seq, Data: []byte(`{}`)}
}

// HealthChecker
func (db *memDB) Ping(ctx context.Context) error                 { return db.pingErr }
func (db *memDB) SchemaVersion(ctx context.Context) (int, error) { return 3, db.pingErr }
func (db *memDB) QuickCheck(ctx context.Context) error           { return db.pingErr }

type memHandle struct {
	db     *memDB
	staged *memState
}

// with runs fn against the staged state, or the live state under the lock.
func (h *memHandle) with(fn func(s *memState)) {
	if h.staged != nil {
		fn(h.staged)
		return
	}
	h.db.mu.Lock()
	defer h.db.mu.Unlock()
	fn(h.db.state)
}

type memEpisodes struct{ h *memHandle }

func (r *memEpisodes) Upsert(ctx context.Context, rec *secondary.EpisodeRecord) error {
	r.h.with(func(s *memState) { s.episodes[rec.ID] = *rec })
	return nil
}

func (r *memEpisodes) GetByID(ctx context.Context, id string) (*secondary.EpisodeRecord, error) {
	var out *secondary.EpisodeRecord
	r.h.with(func(s *memState) {
		if rec, ok := s.episodes[id]; ok {
			out = &rec
		}
	})
	return out, nil
}

func (r *memEpisodes) List(ctx context.Context, f secondary.EpisodeFilters) ([]*secondary.EpisodeRecord, error) {
	var out []*secondary.EpisodeRecord
	r.h.with(func(s *memState) {
		r.h.db.episodeLists++
		for _, rec := range s.episodes {
			if f.Author != "" && rec.Author != f.Author {
				continue
			}
			if f.Title != "" && rec.Title != f.Title {
				continue
			}
			rec := rec
			out = append(out, &rec)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memEpisodes) ListIDs(ctx context.Context) ([]string, error) {
	var out []string
	r.h.with(func(s *memState) {
		for id := range s.episodes {
			out = append(out, id)
		}
	})
	sort.Strings(out)
	return out, nil
}

func (r *memEpisodes) Delete(ctx context.Context, id string) error {
	var err error
	r.h.with(func(s *memState) {
		if _, ok := s.episodes[id]; !ok {
			err = secondary.ErrNotFound
			return
		}
		delete(s.episodes, id)
	})
	return err
}

type memCampaigns struct{ h *memHandle }

func (r *memCampaigns) Upsert(ctx context.Context, rec *secondary.CampaignRecord) error {
	r.h.with(func(s *memState) { s.campaigns[rec.ID] = *rec })
	return nil
}

func (r *memCampaigns) GetByID(ctx context.Context, id string) (*secondary.CampaignRecord, error) {
	var out *secondary.CampaignRecord
	r.h.with(func(s *memState) {
		if rec, ok := s.campaigns[id]; ok {
			out = &rec
		}
	})
	return out, nil
}

func (r *memCampaigns) List(ctx context.Context, f secondary.CampaignFilters) ([]*secondary.CampaignRecord, error) {
	var out []*secondary.CampaignRecord
	r.h.with(func(s *memState) {
		for _, rec := range s.campaigns {
			rec := rec
			out = append(out, &rec)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCampaigns) Delete(ctx context.Context, id string) error {
	var err error
	r.h.with(func(s *memState) {
		if _, ok := s.campaigns[id]; !ok {
			err = secondary.ErrNotFound
			return
		}
		delete(s.campaigns, id)
	})
	return err
}

type memSnapshots struct{ h *memHandle }

func (r *memSnapshots) Create(ctx context.Context, rec *secondary.SnapshotRecord) error {
	if r.h.db.snapshotCreateErr != nil {
		return r.h.db.snapshotCreateErr
	}
	r.h.db.mu.Lock()
	r.h.db.seq++
	rec.Seq = r.h.db.seq
	r.h.db.mu.Unlock()
	r.h.with(func(s *memState) { s.snapshots[rec.ID] = *rec })
	return nil
}

func (r *memSnapshots) GetByID(ctx context.Context, id string) (*secondary.SnapshotRecord, error) {
	var out *secondary.SnapshotRecord
	r.h.with(func(s *memState) {
		if rec, ok := s.snapshots[id]; ok {
			out = &rec
		}
	})
	return out, nil
}

func (r *memSnapshots) ListByEpisode(ctx context.Context, episodeID string) ([]*secondary.SnapshotRecord, error) {
	if r.h.db.snapshotListErr != nil {
		return nil, r.h.db.snapshotListErr
	}
	var out []*secondary.SnapshotRecord
	r.h.with(func(s *memState) {
		for _, rec := range s.snapshots {
			if rec.EpisodeID == episodeID {
				rec := rec
				rec.Data = nil
				out = append(out, &rec)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

func (r *memSnapshots) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if r.h.db.snapshotDeleteErr != nil {
		return 0, r.h.db.snapshotDeleteErr
	}
	n := 0
	r.h.with(func(s *memState) {
		for _, id := range ids {
			if _, ok := s.snapshots[id]; ok {
				delete(s.snapshots, id)
				n++
			}
		}
	})
	return n, nil
}

func (r *memSnapshots) DeleteByEpisode(ctx context.Context, episodeID string) (int, error) {
	if r.h.db.snapshotDeleteErr != nil {
		return 0, r.h.db.snapshotDeleteErr
	}
	n := 0
	r.h.with(func(s *memState) {
		for id, rec := range s.snapshots {
			if rec.EpisodeID == episodeID {
				delete(s.snapshots, id)
				n++
			}
		}
	})
	return n, nil
}

type memSettings struct{ h *memHandle }

func (r *memSettings) Get(ctx context.Context, id string) (*secondary.SettingsRecord, error) {
	var out *secondary.SettingsRecord
	r.h.with(func(s *memState) {
		if rec, ok := s.settings[id]; ok {
			out = &rec
		}
	})
	return out, nil
}

func (r *memSettings) Put(ctx context.Context, rec *secondary.SettingsRecord) error {
	r.h.with(func(s *memState) { s.settings[rec.ID] = *rec })
	return nil
}

func (r *memSettings) Delete(ctx context.Context, id string) error {
	r.h.with(func(s *memState) { delete(s.settings, id) })
	return nil
}

// testClock returns strictly increasing times one second apart.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// testServices wires every service to one memDB.
type testServices struct {
	db        *memDB
	clock     *testClock
	episodes  *EpisodeServiceImpl
	campaigns *CampaignServiceImpl
	snapshots *SnapshotServiceImpl
	transfer  *TransferServiceImpl
}

func newTestServices() *testServices {
	db := newMemDB()
	clock := newTestClock()
	v := validation.New()
	log := zap.NewNop()
	stores := db.Stores()

	episodes := NewEpisodeService(db, stores, v, FixedRetention(10), log)
	episodes.now = clock.Now
	campaigns := NewCampaignService(stores, v, log)
	campaigns.now = clock.Now
	snapshots := NewSnapshotService(stores, log)
	snapshots.now = clock.Now
	transfer := NewTransferService(TransferServiceDeps{
		EpisodeService:  episodes,
		CampaignService: campaigns,
		UnitOfWork:      db,
		Stores:          stores,
		Documents:       newMemDocuments(),
		Validator:       v,
		Retention:       FixedRetention(10),
		SchemaVersion:   3,
		Logger:          log,
	})
	transfer.now = clock.Now

	return &testServices{
		db:        db,
		clock:     clock,
		episodes:  episodes,
		campaigns: campaigns,
		snapshots: snapshots,
		transfer:  transfer,
	}
}

type memDocuments struct {
	files map[string][]byte
}

func newMemDocuments() *memDocuments {
	return &memDocuments{files: map[string][]byte{}}
}

func (m *memDocuments) ReadDocument(ctx context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return data, nil
}

func (m *memDocuments) WriteDocument(ctx context.Context, path string, data []byte) error {
	m.files[path] = append([]byte(nil), data...)
	return nil
}

// ghostEpisode links start to a scene that does not exist.
func ghostEpisode() *narrative.Episode {
	return &narrative.Episode{
		ID:    "episode-ghost",
		Title: "Haunted Deck",
		Scenes: narrative.NewSceneSet(
			narrative.Scene{
				ID:   "start",
				Text: []string{"Something moves on deck 7."},
				Choices: []narrative.Choice{
					{Text: "Investigate", NextScene: "end"},
					{Text: "Follow the whisper", NextScene: "ghost"},
				},
			},
			narrative.Scene{ID: "end", Text: []string{"Nothing there."}, Choices: []narrative.Choice{}},
		),
	}
}

var (
	_ secondary.UnitOfWork    = (*memDB)(nil)
	_ secondary.HealthChecker = (*memDB)(nil)
	_ secondary.DocumentStore = (*memDocuments)(nil)
)
