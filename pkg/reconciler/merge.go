package reconciler

import "encoding/json"

// Source names where the canvas content came from when a workspace
// opened.
type Source string

const (
	// SourceLocal means the local cache held a valid draft and won.
	SourceLocal Source = "local"
	// SourceCloud means the server's draft was used.
	SourceCloud Source = "cloud"
	// SourceFresh means neither side had anything; the canvas starts empty.
	SourceFresh Source = "fresh"
)

// Resolution is a merge decision: the content to load and where it
// came from.
type Resolution struct {
	Elements    ElementList
	Explanation string
	Source      Source
}

// cachedDraft is the cache entry format: the element list plus the
// explanation text, saved together on every autosave. Older entries
// hold a bare element array with no explanation; both forms load.
type cachedDraft struct {
	Elements    ElementList `json:"elements"`
	Explanation string      `json:"explanation"`
}

// parseCacheEntry reads a cache entry in either accepted form.
func parseCacheEntry(raw string) (cachedDraft, bool) {
	var entry cachedDraft
	if err := json.Unmarshal([]byte(raw), &entry); err == nil && entry.Elements != nil {
		return entry, true
	}
	if elements, err := ParseElements(raw); err == nil {
		return cachedDraft{Elements: elements}, true
	}
	return cachedDraft{}, false
}

// MergePolicy decides between a local cache payload and a cloud draft.
// localRaw is the raw cache entry ("" when absent); cloud is nil when
// the server has no draft. localCorrupt is reported so the caller can
// purge a cache entry that failed to parse.
type MergePolicy interface {
	Resolve(localRaw string, cloud *Design) (res Resolution, localCorrupt bool)
}

// PreferLocalOnValid is the default policy: a parseable local draft
// always wins because it is at most one autosave interval old, while
// the cloud draft may predate the whole session. A corrupt local entry
// is discarded and the cloud draft (or an empty canvas) takes over.
type PreferLocalOnValid struct{}

func (PreferLocalOnValid) Resolve(localRaw string, cloud *Design) (Resolution, bool) {
	localCorrupt := false
	if localRaw != "" {
		if entry, ok := parseCacheEntry(localRaw); ok {
			return Resolution{
				Elements:    entry.Elements,
				Explanation: entry.Explanation,
				Source:      SourceLocal,
			}, false
		}
		localCorrupt = true
	}
	if cloud != nil {
		elements, err := ParseElements(string(cloud.DiagramData))
		if err == nil {
			return Resolution{
				Elements:    elements,
				Explanation: cloud.TextExplanation,
				Source:      SourceCloud,
			}, localCorrupt
		}
	}
	return Resolution{Elements: ElementList{}, Source: SourceFresh}, localCorrupt
}
