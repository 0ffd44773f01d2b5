package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/preenlabs/preen/pkg/dataset"
)

// loadHTML extracts the first <table> from an HTML document. The first
// non-empty row is the header; cell text is whitespace-collapsed, so a
// blank cell loads as a null.
func (l *Loader) loadHTML(body []byte) (*dataset.Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in HTML input")
	}

	var (
		header []string
		rows   [][]string
	)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, squashSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if header == nil {
			header = cells
			return
		}
		rows = append(rows, cells)
	})
	if header == nil {
		return nil, fmt.Errorf("table has no rows")
	}

	return l.table(header, rows)
}

// squashSpace collapses whitespace runs to single spaces and trims.
func squashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
