// Package types defines the value types shared across the registrar:
// the event and family inputs, the registration method and failure
// taxonomies, and the single result type every attempt produces.
package types

import "fmt"

// Event identifies one event to register for. The registrar does not own
// event records; callers supply them and they are never mutated.
type Event struct {
	// Title is the human-readable event name, used for logging and for
	// validating that navigation landed on the right page.
	Title string `yaml:"title" json:"title"`

	// RegistrationURL is the page the registration attempt starts from.
	RegistrationURL string `yaml:"registration_url" json:"registration_url"`
}

// Child is one child in a family profile.
type Child struct {
	Name string `yaml:"name" json:"name"`
	Age  int    `yaml:"age" json:"age"`
}

// FamilyProfile holds the family data used to fill registration forms.
// It is supplied once per attempt and treated as read-only, so a single
// profile may back concurrent attempts safely.
//
// The profile is deliberately unvalidated: missing or malformed values
// degrade to unfilled form fields, never to an error.
type FamilyProfile struct {
	Parent1Name      string  `yaml:"parent1_name" json:"parent1_name"`
	Parent1Email     string  `yaml:"parent1_email" json:"parent1_email"`
	Parent2Name      string  `yaml:"parent2_name,omitempty" json:"parent2_name,omitempty"`
	Parent2Email     string  `yaml:"parent2_email,omitempty" json:"parent2_email,omitempty"`
	Children         []Child `yaml:"children" json:"children"`
	EmergencyContact string  `yaml:"emergency_contact" json:"emergency_contact"`
}

// ChildrenSummary renders the children list in the "Name (age N)" form
// most registration forms expect in a participants field.
func (p FamilyProfile) ChildrenSummary() string {
	out := ""
	for i, c := range p.Children {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s (age %d)", c.Name, c.Age)
	}
	return out
}
