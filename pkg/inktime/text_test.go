package inktime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/basicfont"
)

// basicfont.Face7x13 advances exactly 7 pixels per glyph.
var face7 = basicfont.Face7x13

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		maxLines int
		want     []string
	}{
		{"empty", "", 70, 2, nil},
		{"fits one line", "hello", 70, 2, []string{"hello"}},
		{"exact width two lines", strings.Repeat("a", 10) + strings.Repeat("b", 10), 70, 2,
			[]string{"aaaaaaaaaa", "bbbbbbbbbb"}},
		{"third line dropped", strings.Repeat("a", 10) + strings.Repeat("b", 10) + "ccccc", 70, 2,
			[]string{"aaaaaaaaaa", "bbbbbbbbbb"}},
		{"one pixel short", strings.Repeat("a", 10), 69, 2, []string{"aaaaaaaaa", "a"}},
		{"single line limit", "abcdefghijkl", 35, 1, []string{"abcde"}},
		{"multibyte runes", "日本語の写真", 21, 2, []string{"日本語", "の写真"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(face7, tt.text, tt.maxWidth, tt.maxLines)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WrapText mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextWidth(t *testing.T) {
	if got := textWidth(face7, "abcd"); got != 28 {
		t.Errorf("textWidth = %d, want 28", got)
	}
	if got := textWidth(face7, ""); got != 0 {
		t.Errorf("textWidth(\"\") = %d, want 0", got)
	}
}

func TestFaceOrDefault(t *testing.T) {
	if f := faceOrDefault("", 40); f != basicfont.Face7x13 {
		t.Error("empty path did not fall back to the built-in face")
	}

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if f := faceOrDefault(bad, 40); f != basicfont.Face7x13 {
		t.Error("invalid font did not fall back to the built-in face")
	}
	if f := faceOrDefault(filepath.Join(t.TempDir(), "missing.ttf"), 40); f != basicfont.Face7x13 {
		t.Error("missing font did not fall back to the built-in face")
	}
}
