package stream

// Candidate is a URL observed during a browser session, together with its
// classification. Immutable once observed.
type Candidate struct {
	URL  string
	Kind Kind
}

// DiscoverySet is an insertion-ordered set of candidate URLs, deduplicated
// by exact string equality. Membership is monotonic: candidates are only
// ever added, never removed.
//
// DiscoverySet itself is not safe for concurrent use; the browser sniffer
// serializes writes from its network-event callbacks and the set is only
// read after the session has fully closed.
type DiscoverySet struct {
	order []Candidate
	seen  map[string]struct{}
}

// NewDiscoverySet returns an empty DiscoverySet.
func NewDiscoverySet() *DiscoverySet {
	return &DiscoverySet{seen: make(map[string]struct{})}
}

// Add records a candidate URL. Duplicates and KindUnrelated URLs are
// ignored. Returns true if the candidate was newly added.
func (s *DiscoverySet) Add(rawURL string, kind Kind) bool {
	if rawURL == "" || kind == KindUnrelated {
		return false
	}
	if _, ok := s.seen[rawURL]; ok {
		return false
	}
	s.seen[rawURL] = struct{}{}
	s.order = append(s.order, Candidate{URL: rawURL, Kind: kind})
	return true
}

// Len returns the number of recorded candidates.
func (s *DiscoverySet) Len() int {
	return len(s.order)
}

// Candidates returns all recorded candidates in insertion order.
func (s *DiscoverySet) Candidates() []Candidate {
	out := make([]Candidate, len(s.order))
	copy(out, s.order)
	return out
}

// SelectStreams picks the retrievable URLs out of a DiscoverySet.
//
// Manifests and direct audio are preferred: if any were observed, only those
// are returned (in insertion order) and segments are ignored. If only
// segments were observed, the deduplicated set of manifests inferred from
// them is returned instead, dropping segments that fail to infer. An empty
// result means the session surfaced nothing retrievable; the caller decides
// whether that is a failure.
func SelectStreams(set *DiscoverySet, c *Classifier) []string {
	var direct []string
	var segments []string
	for _, cand := range set.Candidates() {
		switch cand.Kind {
		case KindManifest, KindDirectAudio:
			direct = append(direct, cand.URL)
		case KindSegment:
			segments = append(segments, cand.URL)
		}
	}
	if len(direct) > 0 {
		return direct
	}

	// Only segments were seen; fall back to their inferred manifests.
	seen := make(map[string]struct{})
	var inferred []string
	for _, seg := range segments {
		m, ok := c.InferManifestFromSegment(seg)
		if !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		inferred = append(inferred, m)
	}
	return inferred
}
