// Package classify holds the pure heuristic classifiers: semantic typing
// of individual form controls and confirmation-number extraction. Both
// are functions of their inputs only; nothing here touches the browser.
package classify

import (
	"regexp"
	"strings"
)

// FieldType is the semantic role a form control plays in a registration
// form.
type FieldType string

const (
	FieldFirstName FieldType = "first_name"
	FieldLastName  FieldType = "last_name"
	FieldName      FieldType = "name" // full-name field with no first/last split
	FieldEmail     FieldType = "email"
	FieldPhone     FieldType = "phone"
	FieldChildren  FieldType = "children"
	FieldEmergency FieldType = "emergency"
	FieldAge       FieldType = "age"
	FieldAddress   FieldType = "address"
	FieldNotes     FieldType = "notes"
	FieldUnknown   FieldType = "unknown"
)

// Control is the attribute snapshot of one form control, read from the
// DOM exactly once before classification.
type Control struct {
	Name        string
	ID          string
	Placeholder string
	Label       string
	InputType   string
	Selector    string
}

// FieldClassification is the classifier's verdict for one control. It is
// ephemeral: the fill stage consumes it and nothing retains it afterward.
type FieldClassification struct {
	Type       FieldType
	Selector   string
	Confidence int // 0-100
	Label      string
}

// fieldRule pairs a field type with its match pattern and the keywords
// that add supporting evidence. Rules are evaluated in order; the first
// pattern hit decides the type, so specific patterns (last_name) must
// precede loose ones (the bare "name" fallback).
type fieldRule struct {
	fieldType FieldType
	pattern   *regexp.Regexp
	// canonical is the keyword whose verbatim presence earns the +20
	// evidence bonus.
	canonical string
	// keywords each add +10 when present in the control's text blob.
	keywords []string
	// nativeType is the HTML input type that corroborates this field
	// type for the +30 bonus.
	nativeType string
}

var fieldRules = []fieldRule{
	{
		fieldType: FieldFirstName,
		pattern:   regexp.MustCompile(`first[\s_-]*name|fname|given[\s_-]*name|forename`),
		canonical: "first name",
		keywords:  []string{"first", "given", "fname"},
	},
	{
		fieldType: FieldLastName,
		pattern:   regexp.MustCompile(`last[\s_-]*name|lname|surname|family[\s_-]*name`),
		canonical: "last name",
		keywords:  []string{"last", "surname", "family", "lname"},
	},
	{
		fieldType:  FieldEmail,
		pattern:    regexp.MustCompile(`e[\s_-]*mail|\bemail\b`),
		canonical:  "email",
		keywords:   []string{"email", "e-mail", "mail"},
		nativeType: "email",
	},
	{
		fieldType:  FieldPhone,
		pattern:    regexp.MustCompile(`phone|mobile|telephone|\bcell\b`),
		canonical:  "phone",
		keywords:   []string{"phone", "mobile", "telephone", "cell"},
		nativeType: "tel",
	},
	{
		fieldType: FieldChildren,
		pattern:   regexp.MustCompile(`child|\bkids?\b|participant|camper|student|attendee`),
		canonical: "child",
		keywords:  []string{"child", "children", "participant", "camper", "student"},
	},
	{
		fieldType: FieldEmergency,
		pattern:   regexp.MustCompile(`emergency|ice[\s_-]*contact`),
		canonical: "emergency",
		keywords:  []string{"emergency", "contact"},
	},
	{
		fieldType: FieldAge,
		pattern:   regexp.MustCompile(`\bage\b|\bdob\b|birth`),
		canonical: "age",
		keywords:  []string{"age", "birth", "dob"},
	},
	{
		fieldType: FieldAddress,
		pattern:   regexp.MustCompile(`address|street|\bcity\b|\bzip\b|postal`),
		canonical: "address",
		keywords:  []string{"address", "street", "city", "zip", "postal"},
	},
	{
		fieldType: FieldNotes,
		pattern:   regexp.MustCompile(`\bnotes?\b|comments?|message|special|additional`),
		canonical: "notes",
		keywords:  []string{"notes", "comments", "message", "special"},
	},
	{
		// Loose full-name fallback. Must stay last so it cannot shadow
		// first_name/last_name or anything containing "name" as a suffix
		// (emergency contact name, etc. are caught above).
		fieldType: FieldName,
		pattern:   regexp.MustCompile(`name`),
		canonical: "name",
		keywords:  []string{"name", "full"},
	},
}

const (
	baseConfidence       = 50
	canonicalBonus       = 20
	nativeTypeBonus      = 30
	keywordBonus         = 10
	maxConfidence        = 100
	nativeOnlyConfidence = 90
)

// ClassifyControl infers the semantic type of one form control from its
// attributes and label. It is a pure function: one DOM read happens
// before the call, none during it.
//
// A native type="email" input with no textual evidence still classifies
// as email at confidence 90; everything else without a pattern hit is
// unknown at confidence 0 and must not be filled.
func ClassifyControl(c Control) FieldClassification {
	blob := strings.ToLower(strings.Join([]string{c.Name, c.ID, c.Placeholder, c.Label}, " "))
	inputType := strings.ToLower(c.InputType)

	for _, rule := range fieldRules {
		if !rule.pattern.MatchString(blob) {
			continue
		}

		confidence := baseConfidence
		if strings.Contains(blob, rule.canonical) {
			confidence += canonicalBonus
		}
		if rule.nativeType != "" && inputType == rule.nativeType {
			confidence += nativeTypeBonus
		}
		for _, kw := range rule.keywords {
			if strings.Contains(blob, kw) {
				confidence += keywordBonus
			}
		}
		if confidence > maxConfidence {
			confidence = maxConfidence
		}

		return FieldClassification{
			Type:       rule.fieldType,
			Selector:   c.Selector,
			Confidence: confidence,
			Label:      c.Label,
		}
	}

	// No textual evidence at all, but the browser enforces email syntax
	// on these inputs, so the semantic type is certain enough.
	if inputType == "email" {
		return FieldClassification{
			Type:       FieldEmail,
			Selector:   c.Selector,
			Confidence: nativeOnlyConfidence,
			Label:      c.Label,
		}
	}

	return FieldClassification{
		Type:     FieldUnknown,
		Selector: c.Selector,
		Label:    c.Label,
	}
}
