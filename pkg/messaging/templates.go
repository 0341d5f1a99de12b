// Package messaging drives the outreach mail workflow: it finds leads with a
// touchpoint due on a day, picks the message template for each touchpoint
// and hands the composed mail to a Sender.
package messaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"leadscore/pkg/apperr"
	"leadscore/pkg/models"

	"golang.org/x/text/unicode/norm"
)

// Template folder kinds.
const (
	KindEducational = "educational"
	KindFeedback    = "feedback"
	KindWelcome     = "welcome"
	KindPromotion   = "promotion"
)

// TouchpointColumns are the date columns that trigger a message, in the
// order they are checked.
func TouchpointColumns() []string {
	cols := []string{models.ColEducation, models.ColFeedback, models.ColWelcome}
	for i := 1; i <= models.PromoCount; i++ {
		cols = append(cols, models.PromoColumn(i))
	}
	return cols
}

func kindFor(column string) (kind string, promo int) {
	switch column {
	case models.ColEducation:
		return KindEducational, 0
	case models.ColFeedback:
		return KindFeedback, 0
	case models.ColWelcome:
		return KindWelcome, 0
	}
	for i := 1; i <= models.PromoCount; i++ {
		if column == models.PromoColumn(i) {
			return KindPromotion, i
		}
	}
	return "", 0
}

var industryFolders = map[string]string{
	nfc("Bygg"):           "Bygg",
	nfc("Detaljhandel"):   "Detaljhandel",
	nfc("IT-tjänster"):    "it",
	nfc("Konsult"):        "konsult",
	nfc("Marknadsföring"): "Marknadsföring",
}

var placeholders = []string{nfc("[First Name]"), nfc("[Förnamn]")}

func nfc(s string) string { return norm.NFC.String(s) }

// languageFolder maps the sheet's language cell to a template folder.
func languageFolder(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	switch {
	case strings.HasPrefix(l, "english"):
		return "English"
	case strings.HasPrefix(l, "swedish"), strings.HasPrefix(l, "svenska"):
		return "Svenska"
	default:
		return ""
	}
}

// ReplacePlaceholders normalises text to NFC and fills in the first name.
func ReplacePlaceholders(text, firstName string) string {
	out := nfc(text)
	for _, ph := range placeholders {
		out = strings.ReplaceAll(out, ph, firstName)
	}
	return out
}

// Library resolves templates below Root by the folder convention
// Root/<language>/<kind>/<industry>/*.txt.
type Library struct {
	Root string
}

// Template is a loaded message template.
type Template struct {
	Path    string
	Subject string
	Body    string
}

// Lookup finds and renders the template for one touchpoint.
func (l Library) Lookup(language, column, industry, firstName string) (Template, error) {
	kind, promo := kindFor(column)
	if kind == "" {
		return Template{}, apperr.New(apperr.KindTemplate, "no template kind").WithOp("template")
	}
	dir := filepath.Join(l.Root, languageFolder(language), kind, industryFolders[nfc(strings.TrimSpace(industry))])

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Template{}, &apperr.Error{Kind: apperr.KindTemplate, Op: "template", Column: column, Message: "folder not found: " + dir, Err: err}
	}
	var name string
	prefix := fmt.Sprint(promo)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		if promo > 0 && !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		name = e.Name()
		break
	}
	if name == "" {
		return Template{}, &apperr.Error{Kind: apperr.KindTemplate, Op: "template", Column: column, Message: "no .txt template in " + dir}
	}

	path := filepath.Join(dir, name)
	body, err := os.ReadFile(path)
	if err != nil {
		return Template{}, apperr.Wrap(apperr.KindTemplate, "read "+path, err)
	}

	subject := ReplacePlaceholders(strings.TrimSuffix(name, ".txt"), firstName)
	if kind == KindPromotion {
		// promo files are named "<n>Subject"
		if r := []rune(subject); len(r) > 0 {
			subject = string(r[1:])
		}
	}
	return Template{
		Path:    path,
		Subject: subject,
		Body:    ReplacePlaceholders(string(body), firstName),
	}, nil
}
