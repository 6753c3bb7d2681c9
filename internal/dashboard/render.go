package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/amishk599/datajobs/internal/chart"
	"github.com/amishk599/datajobs/internal/page"
)

// RenderOptions controls how a page is drawn as terminal text.
type RenderOptions struct {
	Width     int
	TableRows int  // zero shows every row
	Charts    bool // false draws a placeholder for each chart
}

// RenderPage draws p as styled terminal text.
func RenderPage(p page.Page, opts RenderOptions) string {
	width := max(opts.Width, 20)

	var b strings.Builder
	b.WriteString(pageTitleStyle.Render(p.Subtitle))
	b.WriteByte('\n')

	for _, blk := range p.Blocks {
		switch blk.Kind {
		case page.KindHeading:
			b.WriteString(blockHeadingStyle.Render(blk.Text))
		case page.KindText:
			b.WriteString(wordWrap(blk.Text, width))
		case page.KindCode:
			b.WriteString(codeStyle.Render(blk.Text))
		case page.KindMarkdown:
			b.WriteString(renderMarkdown(blk.Text, width))
		case page.KindTable:
			if blk.Table == nil {
				continue
			}
			b.WriteString(renderTable(blk.Table.Truncate(opts.TableRows)))
		case page.KindChart:
			if blk.Chart == nil {
				continue
			}
			if opts.Charts {
				b.WriteString(chart.RenderText(*blk.Chart, max(width-20, 20)))
			} else {
				b.WriteString(hintStyle.Render(fmt.Sprintf("[chart: %s] press g to draw charts", blk.Chart.Title)))
			}
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderTable(t page.Table) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	out := tbl.Render()
	if note := t.Note(); note != "" {
		out += "\n" + hintStyle.Render(note)
	}
	return out
}

// renderMarkdown styles headings and wraps paragraphs. Table and list lines
// are kept as they are.
func renderMarkdown(md string, width int) string {
	var out []string
	for _, line := range strings.Split(md, "\n") {
		switch {
		case strings.HasPrefix(line, "#"):
			out = append(out, blockHeadingStyle.Render(strings.TrimSpace(strings.TrimLeft(line, "#"))))
		case strings.HasPrefix(line, "|"), strings.HasPrefix(line, "-"), strings.HasPrefix(line, " "):
			out = append(out, line)
		default:
			out = append(out, wordWrap(line, width))
		}
	}
	return strings.Join(out, "\n")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
