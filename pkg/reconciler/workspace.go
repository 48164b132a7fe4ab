package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// AutoSaveOK and AutoSaveFailed are the status strings reported by
// AutoSave. Autosave is advisory; it never returns an error because a
// failed cache write must not interrupt the user.
const (
	AutoSaveOK     = "saved locally"
	AutoSaveFailed = "local save failed"
)

// Workspace is one user's editing session on one scenario. Open
// reconciles local and cloud state, after which the workspace tracks
// the canvas in memory, autosaves it to the cache and pushes it to the
// server on demand.
type Workspace struct {
	client *Client
	cache  DraftCache
	policy MergePolicy

	userID     uint64
	scenarioID uint64

	mu          sync.Mutex
	designID    uint64 // 0 until a cloud draft is known
	scenario    *Scenario
	elements    ElementList
	explanation string
	source      Source
}

// NewWorkspace builds a workspace with the default merge policy.
func NewWorkspace(client *Client, cache DraftCache, userID, scenarioID uint64) *Workspace {
	return &Workspace{
		client:     client,
		cache:      cache,
		policy:     PreferLocalOnValid{},
		userID:     userID,
		scenarioID: scenarioID,
	}
}

// Open loads the scenario and the cloud draft concurrently, then merges
// with the local cache. A corrupt cache entry is deleted on the spot.
// The scenario fetch failing is fatal (there is nothing to design
// against); the draft fetch failing is not, the canvas just falls back
// to local or fresh content.
func (w *Workspace) Open(ctx context.Context) (Resolution, error) {
	var (
		wg       sync.WaitGroup
		scenario *Scenario
		scErr    error
		draft    *Design
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		scenario, scErr = w.client.GetScenario(ctx, w.scenarioID)
	}()
	go func() {
		defer wg.Done()
		// Best effort; a nil draft covers both "no draft" and "fetch failed".
		draft, _ = w.client.GetDraft(ctx, w.scenarioID)
	}()
	wg.Wait()

	if scErr != nil {
		return Resolution{}, scErr
	}

	key := CacheKey(w.userID, w.scenarioID)
	localRaw, _ := w.cache.Get(key)
	res, localCorrupt := w.policy.Resolve(localRaw, draft)
	if localCorrupt {
		_ = w.cache.Delete(key)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.scenario = scenario
	w.elements = res.Elements
	w.explanation = res.Explanation
	w.source = res.Source
	if draft != nil {
		w.designID = draft.ID
	}
	return res, nil
}

// Scenario returns the prompt loaded by Open.
func (w *Workspace) Scenario() *Scenario {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scenario
}

// Elements returns the current canvas content.
func (w *Workspace) Elements() ElementList {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elements
}

// SetCanvas replaces the canvas content and explanation, as the
// drawing surface does on every edit.
func (w *Workspace) SetCanvas(elements ElementList, explanation string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.elements = elements
	w.explanation = explanation
}

// AutoSave writes the current canvas to the local cache and reports a
// status string for the UI. It never fails the session.
func (w *Workspace) AutoSave() string {
	w.mu.Lock()
	entry := cachedDraft{Elements: w.elements, Explanation: w.explanation}
	w.mu.Unlock()

	b, err := json.Marshal(entry)
	if err != nil {
		return AutoSaveFailed
	}
	if err := w.cache.Set(CacheKey(w.userID, w.scenarioID), string(b)); err != nil {
		return AutoSaveFailed
	}
	return AutoSaveOK
}

// SaveDraft pushes the canvas to the server: an update when a design
// id is already known, an upsert otherwise. On success the cloud copy
// supersedes the local one, so the cache entry is cleared and the
// design id recorded for future saves.
func (w *Workspace) SaveDraft(ctx context.Context) (*Design, error) {
	w.mu.Lock()
	designID := w.designID
	diagram := w.elements.Encode()
	explanation := w.explanation
	w.mu.Unlock()

	var (
		d   *Design
		err error
	)
	if designID != 0 {
		d, err = w.client.UpdateDesign(ctx, designID, diagram, explanation)
	} else {
		d, _, err = w.client.CreateDesign(ctx, w.scenarioID, diagram, explanation)
	}
	if err != nil {
		return nil, err
	}

	_ = w.cache.Delete(CacheKey(w.userID, w.scenarioID))
	w.mu.Lock()
	w.designID = d.ID
	w.mu.Unlock()
	return d, nil
}

// Submit saves the draft and submits it for grading. A failed save
// aborts the submit, and a failed submit leaves the saved draft (and
// any cache state) untouched for retry.
func (w *Workspace) Submit(ctx context.Context) (*Design, error) {
	d, err := w.SaveDraft(ctx)
	if err != nil {
		return nil, err
	}
	if d == nil || d.ID == 0 {
		return nil, errors.New("save did not yield a design id")
	}
	return w.client.SubmitDesign(ctx, d.ID)
}

// Clear empties the canvas and removes the local cache entry. The
// cloud draft, if any, is left alone; the next save overwrites it.
func (w *Workspace) Clear() {
	w.mu.Lock()
	w.elements = ElementList{}
	w.explanation = ""
	w.mu.Unlock()
	_ = w.cache.Delete(CacheKey(w.userID, w.scenarioID))
}
