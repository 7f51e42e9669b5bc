// Package analyze discovers and ranks registration forms on a page.
//
// The analyzer takes one static snapshot of every <form>'s outer HTML,
// scans it with x/net/html, classifies each control, and scores the form
// against a single declarative table. The highest positive score wins;
// a page where every form scores zero has no registration form.
package analyze

import (
	"fmt"
	"strings"

	"github.com/entrhq/registrar/pkg/browser"
	"github.com/entrhq/registrar/pkg/classify"
	"github.com/entrhq/registrar/pkg/types"
)

// FormStructure describes how (or whether) the page can be registered
// on. Exactly one is produced per attempt; it bridges analyze and fill.
type FormStructure struct {
	// HasRegistrationForm is false when no mechanism scored above the
	// adapter's threshold.
	HasRegistrationForm bool

	// Method is the registration mechanism this structure represents.
	Method types.RegistrationMethod

	// Fields maps semantic type to the winning classification for that
	// type. Unknown classifications never enter this map.
	Fields map[classify.FieldType]classify.FieldClassification

	// FormIndex is the index of the selected form in page encounter order.
	FormIndex int

	// FormSelector locates the selected form.
	FormSelector string

	// SubmitSelector locates the form's submit control, "" when none.
	SubmitSelector string

	// Score is the winning form's heuristic score. It ranks candidates;
	// it is not a probability.
	Score int

	// RedirectURL carries a vendor/RSVP destination for non-form methods.
	RedirectURL string

	// ContactAddress carries the address for email-only flows.
	ContactAddress string

	// Reason is a human-readable note for manual methods.
	Reason string
}

// Scoring weights. Centralized so the ranking heuristic is data, not
// scattered additions.
var (
	registrationVocabulary = []string{
		"register", "registration", "sign up", "signup", "sign-up",
		"rsvp", "enroll", "enrollment", "join", "reserve",
	}

	vocabularyWeight = 10
	submitWeight     = 20
	fieldScale       = 10 // each field adds confidence/fieldScale

	// presenceBonuses award once per group when any listed field type
	// is present.
	presenceBonuses = []struct {
		fieldTypes []classify.FieldType
		bonus      int
	}{
		{[]classify.FieldType{classify.FieldFirstName, classify.FieldLastName, classify.FieldName}, 15},
		{[]classify.FieldType{classify.FieldEmail}, 25},
		{[]classify.FieldType{classify.FieldPhone}, 10},
	}
)

// Analyzer scores candidate forms. MinScore is the adapter's selection
// threshold; a best score at or below it means no registration form.
type Analyzer struct {
	MinScore int
}

// Analyze inspects every form on the page and returns the structure for
// the best-scoring candidate. Ties break by encounter order.
func (a Analyzer) Analyze(page browser.Page) (*FormStructure, error) {
	forms, err := page.QueryAll("form")
	if err != nil {
		return nil, fmt.Errorf("form query failed: %w", err)
	}

	best := &FormStructure{Method: types.MethodNone}
	for i, formEl := range forms {
		raw, err := formEl.HTML()
		if err != nil {
			continue
		}

		selector := formSelectorFor(formEl, i)
		scanned, err := scanForm(selector, raw)
		if err != nil {
			continue
		}

		structure := scoreForm(scanned, i)
		if structure.Score > best.Score {
			best = structure
		}
	}

	if best.Score <= a.MinScore || best.Score <= 0 {
		return &FormStructure{Method: types.MethodNone}, nil
	}

	best.HasRegistrationForm = true
	best.Method = types.MethodDirectForm
	return best, nil
}

// scoreForm applies the scoring table to one scanned form.
func scoreForm(form *scannedForm, index int) *FormStructure {
	structure := &FormStructure{
		FormIndex:      index,
		FormSelector:   form.Selector,
		SubmitSelector: form.SubmitSelector,
		Fields:         map[classify.FieldType]classify.FieldClassification{},
	}

	haystack := strings.ToLower(form.HTML)
	for _, word := range registrationVocabulary {
		structure.Score += vocabularyWeight * strings.Count(haystack, word)
	}

	for _, control := range form.Controls {
		c := classify.ClassifyControl(control)
		if c.Type == classify.FieldUnknown {
			continue
		}
		structure.Score += c.Confidence / fieldScale
		if existing, ok := structure.Fields[c.Type]; !ok || c.Confidence > existing.Confidence {
			structure.Fields[c.Type] = c
		}
	}

	if form.SubmitSelector != "" {
		structure.Score += submitWeight
	}

	for _, rule := range presenceBonuses {
		for _, fieldType := range rule.fieldTypes {
			if _, ok := structure.Fields[fieldType]; ok {
				structure.Score += rule.bonus
				break
			}
		}
	}

	return structure
}

// formSelectorFor prefers the form's own id; otherwise the bare tag,
// which is unambiguous on the single-form pages that dominate in
// practice.
func formSelectorFor(formEl browser.Element, index int) string {
	if id, err := formEl.Attribute("id"); err == nil && id != "" {
		return "#" + id
	}
	if index == 0 {
		return "form"
	}
	return fmt.Sprintf("form:nth-of-type(%d)", index+1)
}
