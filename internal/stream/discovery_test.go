package stream

import (
	"reflect"
	"testing"
)

func TestDiscoverySetDeduplicates(t *testing.T) {
	set := NewDiscoverySet()

	if !set.Add("https://croaod.cz/a/manifest.mpd", KindManifest) {
		t.Error("first Add should report true")
	}
	if set.Add("https://croaod.cz/a/manifest.mpd", KindManifest) {
		t.Error("duplicate Add should report false")
	}
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
}

func TestDiscoverySetIgnoresUnrelated(t *testing.T) {
	set := NewDiscoverySet()
	if set.Add("https://example.com/x", KindUnrelated) {
		t.Error("unrelated URLs must not be recorded")
	}
	if set.Add("", KindManifest) {
		t.Error("empty URLs must not be recorded")
	}
	if set.Len() != 0 {
		t.Errorf("Len = %d, want 0", set.Len())
	}
}

func TestDiscoverySetPreservesInsertionOrder(t *testing.T) {
	set := NewDiscoverySet()
	urls := []string{
		"https://croaod.cz/a/manifest.mpd",
		"https://croaod.cz/b/track.mp3",
		"https://croaod.cz/c/manifest.mpd",
	}
	kinds := []Kind{KindManifest, KindDirectAudio, KindManifest}
	for i, u := range urls {
		set.Add(u, kinds[i])
	}

	cands := set.Candidates()
	for i, c := range cands {
		if c.URL != urls[i] {
			t.Errorf("candidate %d = %q, want %q", i, c.URL, urls[i])
		}
	}
}

func TestSelectStreamsPrefersManifestsAndAudio(t *testing.T) {
	c := testClassifier(t)
	set := NewDiscoverySet()
	set.Add("https://croaod.cz/a/seg-1.m4s", KindSegment)
	set.Add("https://croaod.cz/a/manifest.mpd", KindManifest)
	set.Add("https://croaod.cz/b/track.mp3", KindDirectAudio)
	set.Add("https://croaod.cz/a/seg-2.m4s", KindSegment)

	got := SelectStreams(set, c)
	want := []string{
		"https://croaod.cz/a/manifest.mpd",
		"https://croaod.cz/b/track.mp3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectStreams = %v, want %v", got, want)
	}
}

func TestSelectStreamsInfersFromSegmentsOnly(t *testing.T) {
	c := testClassifier(t)
	set := NewDiscoverySet()
	set.Add("https://croaod.cz/a/seg-1.m4s", KindSegment)
	set.Add("https://croaod.cz/a/seg-2.m4s", KindSegment)
	set.Add("https://croaod.cz/b/seg-1.m4s", KindSegment)

	got := SelectStreams(set, c)
	want := []string{
		"https://croaod.cz/a/manifest.mpd",
		"https://croaod.cz/b/manifest.mpd",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectStreams = %v, want %v", got, want)
	}
}

func TestSelectStreamsEmpty(t *testing.T) {
	c := testClassifier(t)
	if got := SelectStreams(NewDiscoverySet(), c); len(got) != 0 {
		t.Errorf("SelectStreams on empty set = %v, want none", got)
	}
}
