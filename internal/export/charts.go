package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/amishk599/datajobs/internal/chart"
	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/page"
)

// ChartSize is the PNG canvas in inches.
type ChartSize struct {
	Width  float64
	Height float64
}

// RenderCharts writes every chart of every page into dir as
// "<page>-<n>-<title>.png" and returns the paths written.
func RenderCharts(dir string, a *dataset.Analysis, size ChartSize) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	for _, id := range page.All {
		p, err := page.Build(id, a)
		if err != nil {
			return written, err
		}
		for n, c := range p.Charts() {
			path := filepath.Join(dir, fmt.Sprintf("%s-%d-%s.png", id, n+1, slug(c.Title)))
			if err := writeChart(path, c, size); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func writeChart(path string, c page.Chart, size ChartSize) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := chart.RenderPNG(f, c, size.Width, size.Height); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// slug lowercases s and replaces runs of anything but letters and digits with "-".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
