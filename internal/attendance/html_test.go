package attendance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/username/timeclock-report/pkg/dateutil"
	"go.uber.org/zap"
)

const rowExport = `<html><body><table>
<tr>
  <td><input class="entrada" value="08:02"></td>
  <td><input class="saida" value="12:14" title="Ponto fechado em 13/01/2025"></td>
  <td><label>TRABALHANDO</label><label>04:12</label><label>09:99</label></td>
</tr>
<tr>
  <td><input class="entrada" value="13:15"></td>
  <td><input class="saida" value="18:05" title="Ponto fechado em 13/01/2025"></td>
  <td><label>4:50</label></td>
</tr>
<tr>
  <td><input class="entrada" value="09:00"></td>
  <td><input class="saida" value="" title="Ponto aberto em 14/01/2025"></td>
  <td><label>--:--</label></td>
</tr>
<tr>
  <td><input class="entrada" value="09:00"></td>
  <td><input class="saida" value="10:00" title="sem data"></td>
  <td><label>01:00</label></td>
</tr>
<tr><td>header row</td></tr>
</table></body></html>`

const legacyExport = `<html><body>
<div><span>Segunda, 06/01/2025</span>
  <label>TRABALHANDO</label><label>04:00</label>
  <label>INTERVALO</label><label>01:00</label>
  <label>TRABALHANDO</label><label>03:30</label>
</div>
<div><span>07/01/2025</span>
  <label>TRABALHANDO</label><label>xx</label>
</div>
</body></html>`

func TestHTMLExtractor_ParseRows(t *testing.T) {
	e := NewHTMLExtractor(zap.NewNop())

	doc, err := e.Parse(strings.NewReader(rowExport))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc) != 2 {
		t.Fatalf("len(doc) = %d, want 2", len(doc))
	}

	jan13 := doc[dateutil.NewDay(2025, time.January, 13)]
	if want := 9*time.Hour + 2*time.Minute; jan13.Worked != want {
		t.Errorf("2025-01-13 Worked = %v, want %v", jan13.Worked, want)
	}
	if got := strings.Join(jan13.Entries, ","); got != "08:02,13:15" {
		t.Errorf("2025-01-13 Entries = %q, want %q", got, "08:02,13:15")
	}
	if got := strings.Join(jan13.Exits, ","); got != "12:14,18:05" {
		t.Errorf("2025-01-13 Exits = %q, want %q", got, "12:14,18:05")
	}

	jan14 := doc[dateutil.NewDay(2025, time.January, 14)]
	if len(jan14.Entries) != 1 || len(jan14.Exits) != 0 {
		t.Errorf("2025-01-14 entries/exits = %v/%v, want 1 entry and no exit", jan14.Entries, jan14.Exits)
	}
	if jan14.Worked != 0 {
		t.Errorf("2025-01-14 Worked = %v, want 0", jan14.Worked)
	}
}

func TestHTMLExtractor_ParseLegacy(t *testing.T) {
	e := NewHTMLExtractor(zap.NewNop())

	doc, err := e.Parse(strings.NewReader(legacyExport))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc) != 2 {
		t.Fatalf("len(doc) = %d, want 2", len(doc))
	}
	if got, want := doc[dateutil.NewDay(2025, time.January, 6)].Worked, 7*time.Hour+30*time.Minute; got != want {
		t.Errorf("2025-01-06 Worked = %v, want %v", got, want)
	}
	if got := doc[dateutil.NewDay(2025, time.January, 7)].Worked; got != 0 {
		t.Errorf("2025-01-07 Worked = %v, want 0", got)
	}
}

func TestHTMLExtractor_EmptyExport(t *testing.T) {
	e := NewHTMLExtractor(zap.NewNop())

	doc, err := e.Parse(strings.NewReader("<html><body><p>nada</p></body></html>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("len(doc) = %d, want 0", len(doc))
	}
}

func TestHTMLExtractor_Extract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01_2025.html")
	if err := os.WriteFile(path, []byte(rowExport), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}

	doc, err := NewHTMLExtractor(zap.NewNop()).Extract(path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(doc) != 2 {
		t.Errorf("len(doc) = %d, want 2", len(doc))
	}

	if _, err := NewHTMLExtractor(zap.NewNop()).Extract(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("Extract() expected error for missing file, got nil")
	}
}

func TestDocumentEarliest(t *testing.T) {
	doc := Document{
		dateutil.NewDay(2025, time.January, 20): {},
		dateutil.NewDay(2025, time.January, 3):  {},
		dateutil.NewDay(2025, time.January, 9):  {},
	}

	got, ok := doc.Earliest()
	if !ok || got != dateutil.NewDay(2025, time.January, 3) {
		t.Errorf("Earliest() = %v, %v, want 2025-01-03, true", got, ok)
	}

	if _, ok := (Document{}).Earliest(); ok {
		t.Error("Earliest() on empty document returned ok = true")
	}
}
