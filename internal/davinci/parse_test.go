package davinci

import (
	"dsbplan-backend/internal/plan"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const indexPage = `<html><body>
<ul class="day-index">
	<li><a href="day_13.htm">13.03.2025 Donnerstag</a></li>
	<li><a href="sub/day_14.htm"> 14.03.2025&nbsp;Freitag </a></li>
	<li><a href="other.htm">Aushang</a></li>
</ul>
</body></html>`

const thursdayPage = `<html><body>
<table>
	<tr><th>Klasse</th><th>Std</th><th>Lehrer</th><th>Fach</th><th>Raum</th><th>Art</th><th>Info</th></tr>
	<tr><td>10a</td><td>4.</td><td>Me</td><td>D</td><td>103</td><td>Vertretung</td><td></td></tr>
	<tr><td>&nbsp;</td><td>5.</td><td>Me</td><td>D</td><td>103</td><td>Zusatz</td><td>&nbsp;</td></tr>
	<tr><td>MSS13</td><td>1.</td><td>+Bal (Stü)</td><td>M</td><td>204</td><td>Raum&auml;nderung</td></tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestParseDayIndex(t *testing.T) {
	base, err := url.Parse("https://example.com/plan/index.htm")
	require.NoError(t, err)

	links, skipped := ParseDayIndex(parse(t, indexPage), base)
	require.Equal(t, []string{"Aushang"}, skipped)
	require.Len(t, links, 2)

	require.Equal(t, "13.03.2025 Donnerstag", links[0].Key)
	require.Equal(t, "https://example.com/plan/day_13.htm", links[0].Url.String())
	require.Equal(t, "14.03.2025 Freitag", links[1].Key)
	require.Equal(t, "https://example.com/plan/sub/day_14.htm", links[1].Url.String())
}

func TestParseDayTable(t *testing.T) {
	rows := ParseDayTable("13.03.2025 Donnerstag", parse(t, thursdayPage))

	expected := []plan.SourceRow{
		{DayKey: "13.03.2025 Donnerstag", Course: "10a", Content: plan.ContentRow{
			Position: "4.", Teacher: "Me", Subject: "D", Room: "103", Topic: "Vertretung",
		}},
		{DayKey: "13.03.2025 Donnerstag", Course: "", Content: plan.ContentRow{
			Position: "5.", Teacher: "Me", Subject: "D", Room: "103", Topic: "Zusatz",
		}},
		{DayKey: "13.03.2025 Donnerstag", Course: "MSS13", Content: plan.ContentRow{
			Position: "1.", Teacher: "+Bal (Stü)", Subject: "M", Room: "204", Topic: "Raumänderung",
		}},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseDayTableWithoutTable(t *testing.T) {
	rows := ParseDayTable("13.03.2025 Donnerstag", parse(t, `<html><body>Keine Vertretungen</body></html>`))
	require.Empty(t, rows)
}
