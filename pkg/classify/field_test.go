package classify

import "testing"

func TestClassifyControl(t *testing.T) {
	tests := []struct {
		name     string
		control  Control
		wantType FieldType
		minConf  int
	}{
		{
			name:     "first name by attribute name",
			control:  Control{Name: "first_name", Selector: "[name=first_name]"},
			wantType: FieldFirstName,
			minConf:  50,
		},
		{
			name:     "last name beats loose name pattern",
			control:  Control{Name: "last_name"},
			wantType: FieldLastName,
			minConf:  50,
		},
		{
			name:     "email by placeholder",
			control:  Control{Name: "contact", Placeholder: "Your email address"},
			wantType: FieldEmail,
			minConf:  70,
		},
		{
			name:     "email with native type gets the type bonus",
			control:  Control{Name: "email", InputType: "email"},
			wantType: FieldEmail,
			minConf:  100,
		},
		{
			name:     "phone with native tel type",
			control:  Control{Name: "phone", InputType: "tel"},
			wantType: FieldPhone,
			minConf:  100,
		},
		{
			name:     "participant field classifies as children",
			control:  Control{Label: "Participant names"},
			wantType: FieldChildren,
			minConf:  50,
		},
		{
			name:     "emergency contact name is emergency, not name",
			control:  Control{Name: "emergency_contact_name"},
			wantType: FieldEmergency,
			minConf:  50,
		},
		{
			name:     "date of birth",
			control:  Control{ID: "dob"},
			wantType: FieldAge,
			minConf:  50,
		},
		{
			name:     "street address",
			control:  Control{Name: "street_address"},
			wantType: FieldAddress,
			minConf:  50,
		},
		{
			name:     "special requests textarea",
			control:  Control{Label: "Special requests or comments"},
			wantType: FieldNotes,
			minConf:  50,
		},
		{
			name:     "bare name falls through to full name",
			control:  Control{Name: "name"},
			wantType: FieldName,
			minConf:  50,
		},
		{
			name:     "no evidence at all is unknown",
			control:  Control{Name: "xyz123", ID: "field-7"},
			wantType: FieldUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyControl(tt.control)

			if got.Type != tt.wantType {
				t.Errorf("type = %s, want %s", got.Type, tt.wantType)
			}
			if got.Confidence < tt.minConf {
				t.Errorf("confidence = %d, want >= %d", got.Confidence, tt.minConf)
			}
			if got.Confidence > 100 {
				t.Errorf("confidence = %d, exceeds 100", got.Confidence)
			}
			if tt.wantType == FieldUnknown && got.Confidence != 0 {
				t.Errorf("unknown classification should have confidence 0, got %d", got.Confidence)
			}
		})
	}
}

func TestClassifyControlNativeEmailWithoutText(t *testing.T) {
	// A type="email" input whose attributes carry no textual evidence
	// must classify as email at exactly 90.
	got := ClassifyControl(Control{Name: "fld_22", InputType: "email", Selector: "#fld_22"})

	if got.Type != FieldEmail {
		t.Fatalf("type = %s, want %s", got.Type, FieldEmail)
	}
	if got.Confidence != 90 {
		t.Errorf("confidence = %d, want exactly 90", got.Confidence)
	}
	if got.Selector != "#fld_22" {
		t.Errorf("selector = %q, want #fld_22", got.Selector)
	}
}

func TestClassifyControlConfidenceMonotonic(t *testing.T) {
	// Adding evidence never lowers confidence.
	weak := ClassifyControl(Control{Placeholder: "e-mail"})
	stronger := ClassifyControl(Control{Name: "email", Placeholder: "Your email"})
	strongest := ClassifyControl(Control{Name: "email", Placeholder: "Your email", InputType: "email"})

	if weak.Type != FieldEmail || stronger.Type != FieldEmail || strongest.Type != FieldEmail {
		t.Fatalf("expected all email classifications, got %s/%s/%s", weak.Type, stronger.Type, strongest.Type)
	}
	if stronger.Confidence < weak.Confidence {
		t.Errorf("more evidence lowered confidence: %d < %d", stronger.Confidence, weak.Confidence)
	}
	if strongest.Confidence < stronger.Confidence {
		t.Errorf("native type bonus lowered confidence: %d < %d", strongest.Confidence, stronger.Confidence)
	}
	if strongest.Confidence > 100 {
		t.Errorf("confidence %d exceeds cap", strongest.Confidence)
	}
}
