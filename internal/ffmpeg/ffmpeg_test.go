package ffmpeg

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jkralik/mujrozhlas-dl/internal/config"
)

func TestAvailable(t *testing.T) {
	r := NewRunner("definitely-not-a-real-binary-name", "ua", "192k")
	if r.Available() {
		t.Error("Available should be false for a nonexistent binary")
	}
}

func TestRecordArgs(t *testing.T) {
	r := NewRunner("ffmpeg", "TestAgent/1.0", "192k")
	headers := []config.Header{
		{Name: "Origin", Value: "https://www.mujrozhlas.cz"},
		{Name: "Referer", Value: "https://www.mujrozhlas.cz/porady/x"},
	}

	args := r.recordArgs("https://croaod.cz/a/manifest.mpd", "/tmp/01 part.mp3", headers)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-nostdin",
		"-user_agent TestAgent/1.0",
		"-i https://croaod.cz/a/manifest.mpd",
		"-vn",
		"-c:a libmp3lame",
		"-b:a 192k",
		"-y /tmp/01 part.mp3",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("recordArgs missing %q in %q", want, joined)
		}
	}

	// Video must be dropped before the codec choice applies.
	if strings.Index(joined, "-vn") > strings.Index(joined, "-c:a") {
		t.Error("-vn should precede -c:a")
	}
}

func TestConcatArgs(t *testing.T) {
	args := concatArgs("/tmp/list.txt", "out.mp3")
	joined := strings.Join(args, " ")

	for _, want := range []string{"-f concat", "-safe 0", "-i /tmp/list.txt", "-c copy", "-y out.mp3"} {
		if !strings.Contains(joined, want) {
			t.Errorf("concatArgs missing %q in %q", want, joined)
		}
	}
	if strings.Contains(joined, "libmp3lame") {
		t.Error("concat must be stream copy, not re-encode")
	}
}

func TestHeaderBlock(t *testing.T) {
	headers := []config.Header{
		{Name: "Accept", Value: "*/*"},
		{Name: "Pragma", Value: "no-cache"},
	}

	got := headerBlock(headers)
	want := "Accept: */*\r\nPragma: no-cache\r\n"
	if got != want {
		t.Errorf("headerBlock = %q, want %q", got, want)
	}
}

func TestConcatList(t *testing.T) {
	list, err := concatList([]string{"/parts/01 part.mp3", "/parts/02 part.mp3"})
	if err != nil {
		t.Fatalf("concatList: %v", err)
	}

	lines := strings.Split(strings.TrimRight(list, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), list)
	}
	if lines[0] != "file '/parts/01 part.mp3'" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "file '/parts/02 part.mp3'" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestConcatListOrderPreserved(t *testing.T) {
	parts := []string{"/p/03.mp3", "/p/01.mp3", "/p/02.mp3"}
	list, err := concatList(parts)
	if err != nil {
		t.Fatalf("concatList: %v", err)
	}

	last := -1
	for _, p := range parts {
		idx := strings.Index(list, p)
		if idx < 0 {
			t.Fatalf("part %q missing from list", p)
		}
		if idx < last {
			t.Error("concat list must preserve input order")
		}
		last = idx
	}
}

func TestConcatListRelativePathsMadeAbsolute(t *testing.T) {
	list, err := concatList([]string{"part.mp3"})
	if err != nil {
		t.Fatalf("concatList: %v", err)
	}
	abs, _ := filepath.Abs("part.mp3")
	if !strings.Contains(list, filepath.ToSlash(abs)) {
		t.Errorf("expected absolute path %q in %q", abs, list)
	}
}

func TestConcatListEscapesQuotes(t *testing.T) {
	list, err := concatList([]string{"/parts/it's here.mp3"})
	if err != nil {
		t.Fatalf("concatList: %v", err)
	}
	if !strings.Contains(list, `it'\''s here`) {
		t.Errorf("single quote not escaped: %q", list)
	}
}
