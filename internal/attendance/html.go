package attendance

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/username/timeclock-report/pkg/dateutil"
	"github.com/username/timeclock-report/pkg/duration"
	"go.uber.org/zap"
)

const exportDateLayout = "02/01/2006"

var (
	dateRegex  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	clockRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// Extractor turns a source export into a per-day attendance document
type Extractor interface {
	Extract(path string) (Document, error)
}

// HTMLExtractor scrapes the time-clock HTML export
type HTMLExtractor struct {
	logger *zap.Logger
}

// NewHTMLExtractor creates a new HTMLExtractor
func NewHTMLExtractor(logger *zap.Logger) *HTMLExtractor {
	return &HTMLExtractor{logger: logger}
}

// Extract reads and parses an HTML export file
func (e *HTMLExtractor) Extract(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	doc, err := e.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	e.logger.Debug("Attendance extracted",
		zap.String("file", path),
		zap.Int("days", len(doc)))

	return doc, nil
}

// Parse parses an HTML export.
//
// The current export layout has one <tr> per clock pair:
//
//	<tr>
//	  <input class="entrada" value="08:02">
//	  <input class="saida" value="12:14" title="Ponto fechado em 13/01/2025">
//	  <label>04:12</label>
//	</tr>
//
// Older exports carry the date in a <span> followed by a
// <label>TRABALHANDO</label><label>HH:MM</label> pair per work interval.
// The older layout is only tried when no <tr> row matched.
func (e *HTMLExtractor) Parse(r io.Reader) (Document, error) {
	html, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	doc := parseRows(html)
	if len(doc) > 0 {
		return doc, nil
	}

	doc = parseLegacy(html)
	if len(doc) > 0 {
		e.logger.Debug("Export parsed with legacy span layout", zap.Int("days", len(doc)))
	}
	return doc, nil
}

func parseRows(html *goquery.Document) Document {
	doc := make(Document)

	html.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// 1. Clock-out input carries the date
		exitInput := tr.Find("input.saida").First()
		if exitInput.Length() == 0 {
			return
		}

		day, ok := parseExportDate(exitInput.AttrOr("title", ""))
		if !ok {
			return
		}

		rec := doc[day]

		// 2. Clock-in / clock-out values
		entry := strings.TrimSpace(tr.Find("input.entrada").First().AttrOr("value", ""))
		if clockRegex.MatchString(entry) {
			rec.Entries = append(rec.Entries, entry)
		}
		exit := strings.TrimSpace(exitInput.AttrOr("value", ""))
		if clockRegex.MatchString(exit) {
			rec.Exits = append(rec.Exits, exit)
		}

		// 3. First HH:MM label is the worked interval of the row
		tr.Find("label").EachWithBreak(func(_ int, label *goquery.Selection) bool {
			text := strings.TrimSpace(label.Text())
			if !clockRegex.MatchString(text) {
				return true
			}
			if d, err := duration.Parse(text); err == nil {
				rec.Worked += d
			}
			return false
		})

		doc[day] = rec
	})

	return doc
}

func parseLegacy(html *goquery.Document) Document {
	doc := make(Document)

	var current dateutil.Day
	hasCurrent := false
	expectHours := false

	html.Find("span, label").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())

		if goquery.NodeName(s) == "span" {
			if day, ok := parseExportDate(text); ok {
				current = day
				hasCurrent = true
				expectHours = false
				if _, exists := doc[day]; !exists {
					doc[day] = Record{}
				}
			}
			return
		}

		if !hasCurrent {
			return
		}
		if strings.EqualFold(text, "TRABALHANDO") {
			expectHours = true
			return
		}
		if expectHours {
			expectHours = false
			if d, err := duration.Parse(text); err == nil {
				rec := doc[current]
				rec.Worked += d
				doc[current] = rec
			}
		}
	})

	return doc
}

func parseExportDate(text string) (dateutil.Day, bool) {
	m := dateRegex.FindString(text)
	if m == "" {
		return dateutil.Day{}, false
	}
	t, err := time.Parse(exportDateLayout, m)
	if err != nil {
		return dateutil.Day{}, false
	}
	return dateutil.DayOf(t), true
}
