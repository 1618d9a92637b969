package mlp

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rally-metrics/models"
)

// NewRawTable trims every header and cell and keeps only the rows whose cell
// count matches the header count. Mismatched rows are layout noise and are
// dropped without error.
func NewRawTable(headers []string, rows [][]string) *models.RawTable {
	table := &models.RawTable{Headers: make([]string, len(headers))}
	for i, h := range headers {
		table.Headers[i] = strings.TrimSpace(h)
	}

	for _, row := range rows {
		if len(row) != len(table.Headers) {
			continue
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// ParseSnapshot extracts the table with the given DOM id from saved page HTML.
func ParseSnapshot(r io.Reader, tableID string) (*models.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("mlp: parse snapshot: %w", err)
	}

	table := doc.Find("#" + tableID).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: #%s", ErrTableNotFound, tableID)
	}

	trs := table.Find("tr")
	if trs.Length() == 0 {
		return NewRawTable(nil, nil), nil
	}

	var headers []string
	trs.First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, innerText(th))
	})

	var rows [][]string
	trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, innerText(td))
		})
		rows = append(rows, cells)
	})

	return NewRawTable(headers, rows), nil
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// innerText approximates the browser's rendered text for a cell: block
// elements and <br> start new lines, inline runs collapse whitespace.
func innerText(sel *goquery.Selection) string {
	w := &lineWriter{}
	w.walk(sel)
	w.breakLine()
	return strings.Join(w.lines, "\n")
}

type lineWriter struct {
	lines []string
	cur   strings.Builder
}

func (w *lineWriter) walk(sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			w.cur.WriteString(c.Text())
		case name == "br":
			w.breakLine()
		case name == "script" || name == "style" || name == "#comment":
		case blockElements[name]:
			w.breakLine()
			w.walk(c)
			w.breakLine()
		default:
			w.walk(c)
		}
	})
}

func (w *lineWriter) breakLine() {
	line := strings.Join(strings.Fields(w.cur.String()), " ")
	if line != "" {
		w.lines = append(w.lines, line)
	}
	w.cur.Reset()
}

// SnapshotFetcher serves the standings table from a saved HTML page instead of a live browser.
type SnapshotFetcher struct {
	Path    string
	TableID string
}

func (f *SnapshotFetcher) FetchStandings(ctx context.Context) (*models.RawTable, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("mlp: open snapshot: %w", err)
	}
	defer file.Close()
	return ParseSnapshot(file, f.TableID)
}
