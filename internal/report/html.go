package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pable/go-gameplan/internal/model"
)

// Section is one titled table in an HTML document. Depths, when set, gives
// the nesting depth of each row for indentation.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
	Depths  []int
}

// Document is a printable game plan.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

type htmlRow struct {
	Cells []string
	Depth int
}

type htmlSection struct {
	Title   string
	Headers []string
	Rows    []htmlRow
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; margin: 1.5em; }
h1 { font-size: 16pt; margin-bottom: 0; }
.sub { color: #555; margin-top: 0.2em; }
h2 { font-size: 12pt; margin-top: 1.5em; border-bottom: 1px solid #999; }
table { border-collapse: collapse; page-break-inside: auto; }
tr { page-break-inside: avoid; }
th, td { border: 1px solid #bbb; padding: 2px 8px; }
th { background: #eee; }
td { text-align: right; }
tr.d0 td { font-weight: bold; background: #f4f4f4; }
tr.d1 td { font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Subtitle}}<p class="sub">{{.Subtitle}}</p>{{end}}
{{range .Sections}}
<h2>{{.Title}}</h2>
{{if .Rows}}<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr class="d{{.Depth}}">{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{else}}<p>(no plays)</p>{{end}}
{{end}}
</body>
</html>
`))

// WriteHTML renders doc as a self-contained HTML page.
func WriteHTML(w io.Writer, doc Document) error {
	data := struct {
		Title    string
		Subtitle string
		Sections []htmlSection
	}{Title: doc.Title, Subtitle: doc.Subtitle}

	for _, s := range doc.Sections {
		hs := htmlSection{Title: s.Title, Headers: s.Headers}
		for i, r := range s.Rows {
			depth := -1
			if i < len(s.Depths) {
				depth = s.Depths[i]
			}
			hs.Rows = append(hs.Rows, htmlRow{Cells: r, Depth: depth})
		}
		data.Sections = append(data.Sections, hs)
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// TendencySection builds an indented HTML section from a tendency report.
func TendencySection(title string, levels []string, rows []model.TendencyRow) Section {
	depths := make([]int, len(rows))
	for i, r := range rows {
		depths[i] = r.Depth
	}
	return Section{Title: title, Headers: TendencyHeaders(levels), Rows: TendencyRecords(rows), Depths: depths}
}

// DownDistanceSection builds the down-and-distance HTML section.
func DownDistanceSection(rows []model.DownDistanceRow) Section {
	return Section{Title: "Down & Distance", Headers: DownDistanceHeaders, Rows: DownDistanceRecords(rows)}
}

// SummarySections builds the run/pass and top plays sections.
func SummarySections(s model.Summary, topN int) []Section {
	return []Section{
		{Title: "Run/Pass", Headers: SummaryHeaders, Rows: SummaryRecords(s)},
		{Title: "Top Plays", Headers: TopPlayHeaders, Rows: TopPlayRecords(s, topN)},
	}
}

// CallsSection builds the down-and-distance play-call HTML section.
func CallsSection(rows []model.ConditionalRow) Section {
	return Section{Title: "Down & Distance Plays and Routes", Headers: CallsHeaders, Rows: CallsRecords(rows)}
}
