package messaging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"leadscore/pkg/apperr"
	"leadscore/pkg/logger"
	"leadscore/pkg/models"
	"leadscore/pkg/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)

func writeTemplate(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts[:len(parts)-1]...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(parts[len(parts)-1]), 0o644))
}

func templateRoot(t *testing.T) string {
	root := t.TempDir()
	writeTemplate(t, root, "English", "educational", "Bygg", "Building tips for [First Name].txt", "Hi [First Name], here are some tips.")
	writeTemplate(t, root, "Svenska", "feedback", "it", "Vad tycker du.txt", "Hej [Förnamn]!")
	writeTemplate(t, root, "English", "promotion", "konsult", "1Autumn offer.txt", "Offer one for [First Name]")
	writeTemplate(t, root, "English", "promotion", "konsult", "2Winter offer.txt", "Offer two")
	return root
}

func leadSheet() *sheet.Table {
	headers := []string{models.ColFirstName, models.ColEmail, models.ColIndustry, models.ColLanguage,
		models.ColEducation, models.ColFeedback, models.ColWelcome, models.PromoColumn(1), models.PromoColumn(2)}
	return sheet.New(headers, [][]string{
		{"Anna", "anna@example.com", "Bygg", "English", "2025-10-20", "N/A", "N/A", "N/A", "N/A"},
		{"Björn", "bjorn@example.com", "IT-tjänster", "Swedish", "2025-10-21", "2025-10-20 00:00:00", "N/A", "N/A", "N/A"},
		{"Cia", "cia@example.com", "Konsult", "English", "N/A", "N/A", "DONE", "2025-10-18", "2025-10-20"},
		{"Dan", "dan@example.com", "Konsult", "English", "DONE", "", "later", "N/A", "N/A"},
		{"Eva", "eva@example.com", "Okänd", "English", "2025-10-20", "N/A", "N/A", "N/A", "N/A"},
	})
}

type recordingSender struct {
	sent []Message
	fail map[string]bool
}

func (r *recordingSender) Send(_ context.Context, m Message) error {
	if r.fail[m.To] {
		return errors.New("mailbox unavailable")
	}
	r.sent = append(r.sent, m)
	return nil
}

func TestDue(t *testing.T) {
	due := Due(leadSheet(), day)
	require.Len(t, due, 4)

	got := make([]string, 0, len(due))
	for _, tp := range due {
		got = append(got, tp.FirstName+"/"+tp.Column)
	}
	assert.Equal(t, []string{
		"Anna/" + models.ColEducation,
		"Björn/" + models.ColFeedback,
		"Cia/" + models.PromoColumn(2),
		"Eva/" + models.ColEducation,
	}, got)
}

func TestReplacePlaceholdersNormalisesForm(t *testing.T) {
	// decomposed ö in the placeholder still matches
	decomposed := "Hej [Fo\u0308rnamn]"
	assert.Equal(t, "Hej Björn", ReplacePlaceholders(decomposed, "Björn"))
	assert.Equal(t, "Hi Anna, Anna", ReplacePlaceholders("Hi [First Name], [First Name]", "Anna"))
}

func TestLookup(t *testing.T) {
	lib := Library{Root: templateRoot(t)}

	tpl, err := lib.Lookup("English", models.ColEducation, "Bygg", "Anna")
	require.NoError(t, err)
	assert.Equal(t, "Building tips for Anna", tpl.Subject)
	assert.Equal(t, "Hi Anna, here are some tips.", tpl.Body)

	tpl, err = lib.Lookup("Swedish", models.ColFeedback, "IT-tjänster", "Björn")
	require.NoError(t, err)
	assert.Equal(t, "Vad tycker du", tpl.Subject)
	assert.Equal(t, "Hej Björn!", tpl.Body)

	tpl, err = lib.Lookup("English", models.PromoColumn(2), "Konsult", "Cia")
	require.NoError(t, err)
	assert.Equal(t, "Winter offer", tpl.Subject)
	assert.True(t, strings.HasSuffix(tpl.Path, "2Winter offer.txt"))
}

func TestLookupMissingTemplate(t *testing.T) {
	lib := Library{Root: templateRoot(t)}

	_, err := lib.Lookup("English", models.ColWelcome, "Bygg", "Anna")
	assert.ErrorIs(t, err, apperr.ErrTemplate)

	_, err = lib.Lookup("English", models.PromoColumn(3), "Konsult", "Cia")
	assert.ErrorIs(t, err, apperr.ErrTemplate)

	_, err = lib.Lookup("English", models.ColLastContact, "Bygg", "Anna")
	assert.ErrorIs(t, err, apperr.ErrTemplate)
}

func TestRunSendsAndMarks(t *testing.T) {
	tb := leadSheet()
	sender := &recordingSender{}

	out, err := Run(context.Background(), tb, day, Library{Root: templateRoot(t)}, sender, Options{Mark: true}, logger.Discard())
	require.NoError(t, err)

	// Eva's industry has no template folder
	assert.Equal(t, Outcome{Matched: 4, Sent: 3, Skipped: 1, Marked: 3}, out)
	require.Len(t, sender.sent, 3)
	assert.Equal(t, "anna@example.com", sender.sent[0].To)

	assert.Equal(t, models.Done, tb.Cell(0, models.ColEducation))
	assert.Equal(t, models.Done, tb.Cell(1, models.ColFeedback))
	assert.Equal(t, models.Done, tb.Cell(2, models.PromoColumn(2)))
	assert.Equal(t, "2025-10-20", tb.Cell(4, models.ColEducation))

	// marked cells are not due again
	assert.Len(t, Due(tb, day), 1)
}

func TestRunContinuesPastSendFailures(t *testing.T) {
	tb := leadSheet()
	sender := &recordingSender{fail: map[string]bool{"anna@example.com": true}}

	out, err := Run(context.Background(), tb, day, Library{Root: templateRoot(t)}, sender, Options{Mark: true}, logger.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mailbox unavailable")
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 2, out.Sent)
	assert.Equal(t, "2025-10-20", tb.Cell(0, models.ColEducation))
}

func TestRunWithoutMarkLeavesTable(t *testing.T) {
	tb := leadSheet()
	before := tb.Clone()

	out, err := Run(context.Background(), tb, day, Library{Root: templateRoot(t)}, &recordingSender{}, Options{}, logger.Discard())
	require.NoError(t, err)
	assert.Zero(t, out.Marked)
	assert.Equal(t, before, tb)
}

func TestDraftSender(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	d := &DraftSender{Dir: dir, FromName: "Sales", FromEmail: "sales@example.com", Day: day}
	m := Message{Row: 0, Column: models.ColEducation, To: "anna@example.com", Subject: "Building tips", Body: "Hello Anna"}

	require.NoError(t, d.Send(context.Background(), m))

	path := d.DraftPath(m)
	assert.Equal(t, "20251020_Education_Date_anna_example.com.eml", filepath.Base(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Subject: Building tips")
	assert.Contains(t, string(raw), "anna@example.com")
	assert.Contains(t, string(raw), "Hello Anna")
}

func TestDraftSenderRejectsBadAddress(t *testing.T) {
	d := &DraftSender{Dir: t.TempDir(), Day: day}
	err := d.Send(context.Background(), Message{To: "not an address", Subject: "x"})
	assert.Error(t, err)
}
