package tbrowse

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestGoldenRenders(t *testing.T) {
	goldens, err := filepath.Glob("testdata/*.golden")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(goldens) == 0 {
		t.Fatalf("no golden files under testdata")
	}
	for _, golden := range goldens {
		name := strings.TrimSuffix(filepath.Base(golden), ".golden")
		idx := strings.LastIndex(name, ".w")
		if idx < 0 {
			t.Fatalf("golden %s has no width suffix", golden)
		}
		width, err := strconv.Atoi(name[idx+2:])
		if err != nil {
			t.Fatalf("golden %s: bad width: %v", golden, err)
		}
		src := readFixture(t, filepath.Join("testdata", name[:idx]+".html"))
		want, err := os.ReadFile(golden)
		if err != nil {
			t.Fatalf("read %s: %v", golden, err)
		}
		t.Run(name, func(t *testing.T) {
			got := renderANSI(t, src, width, PlainTheme())
			if !bytes.Equal([]byte(got), want) {
				t.Fatalf("golden mismatch for %s\n---want---\n%s\n---got---\n%s", golden, want, got)
			}
		})
	}
}
