package davinci

import (
	"dsbplan-backend/internal/plan"
	"dsbplan-backend/pkg/htmlutil"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DayLink points to the page of one day in the day index.
type DayLink struct {
	// Key is the link text, "<DD.MM.YYYY> <Weekday>".
	Key string
	Url *url.URL
}

// ParseDayIndex reads the links of `ul.day-index`. Links whose text is not a date
// followed by a weekday are returned in skipped.
func ParseDayIndex(doc *goquery.Document, base *url.URL) (links []DayLink, skipped []string) {
	doc.Find("ul.day-index a").Each(func(_ int, a *goquery.Selection) {
		text := htmlutil.CellText(a)
		href, ok := a.Attr("href")
		if !ok || len(strings.Fields(text)) != 2 {
			skipped = append(skipped, text)
			return
		}

		link, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			skipped = append(skipped, text)
			return
		}
		if base != nil {
			link = base.ResolveReference(link)
		}

		links = append(links, DayLink{Key: text, Url: link})
	})
	return links, skipped
}

// the column order of the day table
const (
	colCourse = iota
	colPosition
	colTeacher
	colSubject
	colRoom
	colTopic
	colInfo
)

// ParseDayTable reads the rows of the first table of a day page. Rows without data
// cells (the header) are ignored, missing cells are empty.
func ParseDayTable(dayKey string, doc *goquery.Document) []plan.SourceRow {
	rows := []plan.SourceRow{}
	doc.Find("table").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cols := tr.Find("td")
		if cols.Length() == 0 {
			return
		}
		cells := make([]string, cols.Length())
		cols.Each(func(i int, td *goquery.Selection) {
			cells[i] = htmlutil.CellText(td)
		})
		cell := func(i int) string {
			if i < len(cells) {
				return cells[i]
			}
			return ""
		}

		rows = append(rows, plan.SourceRow{
			DayKey: dayKey,
			Course: cell(colCourse),
			Content: plan.ContentRow{
				Position: cell(colPosition),
				Teacher:  cell(colTeacher),
				Subject:  cell(colSubject),
				Room:     cell(colRoom),
				Topic:    cell(colTopic),
				Info:     cell(colInfo),
			},
		})
	})
	return rows
}
