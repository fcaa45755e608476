// Command gen-golden rewrites testdata/<name>.w<width>.golden from the
// matching <name>.html with the plain theme.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pkt.systems/tbrowse"
)

func main() {
	widths := []int{40, 60, 80}
	root := "testdata"
	var paths []string
	widthsByBase := map[string][]int{}
	entries, err := os.ReadDir(root)
	if err != nil {
		fatalf("read %s: %v", root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".html"):
			paths = append(paths, filepath.Join(root, name))
		case strings.HasSuffix(name, ".golden"):
			if base, width, ok := parseGoldenWidth(name); ok {
				widthsByBase[base] = append(widthsByBase[base], width)
			}
		}
	}
	if len(paths) == 0 {
		fatalf("no html files found under %s", root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		base := strings.TrimSuffix(filepath.Base(path), ".html")
		useWidths := widthsByBase[base]
		if len(useWidths) == 0 {
			useWidths = widths
		}
		for _, width := range useWidths {
			var out bytes.Buffer
			err := tbrowse.Render(tbrowse.RenderRequest{
				Reader: bytes.NewReader(src),
				Writer: &out,
				Width:  width,
				Theme:  tbrowse.PlainTheme(),
			})
			if err != nil {
				fatalf("render %s width %d: %v", path, width, err)
			}
			goldenPath := filepath.Join(root, fmt.Sprintf("%s.w%d.golden", base, width))
			if err := os.WriteFile(goldenPath, out.Bytes(), 0o644); err != nil {
				fatalf("write %s: %v", goldenPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// parseGoldenWidth splits "sample.w40.golden" into "sample" and 40.
func parseGoldenWidth(name string) (string, int, bool) {
	name = strings.TrimSuffix(name, ".golden")
	idx := strings.LastIndex(name, ".w")
	if idx == -1 {
		return "", 0, false
	}
	width, err := strconv.Atoi(name[idx+2:])
	if err != nil || width <= 0 {
		return "", 0, false
	}
	return name[:idx], width, true
}
