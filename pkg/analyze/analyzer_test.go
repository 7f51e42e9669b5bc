package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/registrar/pkg/browser/browsertest"
	"github.com/entrhq/registrar/pkg/classify"
	"github.com/entrhq/registrar/pkg/types"
)

func TestAnalyzeSelectsRegistrationForm(t *testing.T) {
	page := &browsertest.FakePage{
		Elements: map[string][]*browsertest.FakeElement{
			"form": {
				{
					Attrs: map[string]string{},
					HTMLContent: `<form action="/register">
						<p>Register for this event</p>
						<input type="text" name="first_name">
						<input type="email" name="email">
						<button type="submit">Register</button>
					</form>`,
				},
			},
		},
	}

	structure, err := Analyzer{}.Analyze(page)
	require.NoError(t, err)

	assert.True(t, structure.HasRegistrationForm)
	assert.Equal(t, types.MethodDirectForm, structure.Method)
	assert.Greater(t, structure.Score, 40)
	assert.Contains(t, structure.Fields, classify.FieldFirstName)
	assert.Contains(t, structure.Fields, classify.FieldEmail)
	assert.NotEmpty(t, structure.SubmitSelector)
}

func TestAnalyzeNoFormsOnPage(t *testing.T) {
	page := &browsertest.FakePage{Elements: map[string][]*browsertest.FakeElement{}}

	structure, err := Analyzer{}.Analyze(page)
	require.NoError(t, err)

	assert.False(t, structure.HasRegistrationForm)
	assert.Equal(t, types.MethodNone, structure.Method)
}

func TestAnalyzeAllZeroScoresMeansNoForm(t *testing.T) {
	// A search box has no registration vocabulary, no classified fields
	// and no submit control worth the name.
	page := &browsertest.FakePage{
		Elements: map[string][]*browsertest.FakeElement{
			"form": {
				{HTMLContent: `<form><input type="hidden" name="csrf" value="x"></form>`},
			},
		},
	}

	structure, err := Analyzer{}.Analyze(page)
	require.NoError(t, err)
	assert.False(t, structure.HasRegistrationForm)
}

func TestAnalyzePicksHighestScoringForm(t *testing.T) {
	page := &browsertest.FakePage{
		Elements: map[string][]*browsertest.FakeElement{
			"form": {
				{HTMLContent: `<form><input type="text" name="q" placeholder="Search"></form>`},
				{
					Attrs: map[string]string{"id": "signup"},
					HTMLContent: `<form id="signup">
						<p>Sign up and register here</p>
						<label for="em">Email</label>
						<input type="email" id="em" name="email">
						<input type="tel" name="phone">
						<input type="submit" value="Register">
					</form>`,
				},
			},
		},
	}

	structure, err := Analyzer{}.Analyze(page)
	require.NoError(t, err)

	assert.True(t, structure.HasRegistrationForm)
	assert.Equal(t, 1, structure.FormIndex)
	assert.Equal(t, "#signup", structure.FormSelector)
	assert.Contains(t, structure.Fields, classify.FieldEmail)
	assert.Contains(t, structure.Fields, classify.FieldPhone)
}

func TestAnalyzeRespectsMinScore(t *testing.T) {
	page := &browsertest.FakePage{
		Elements: map[string][]*browsertest.FakeElement{
			"form": {
				// A weak contact form: a couple of classified fields but
				// no registration vocabulary.
				{HTMLContent: `<form><input type="email" name="email"><button type="submit">Send</button></form>`},
			},
		},
	}

	loose, err := Analyzer{}.Analyze(page)
	require.NoError(t, err)
	require.True(t, loose.HasRegistrationForm)

	strict, err := Analyzer{MinScore: loose.Score}.Analyze(page)
	require.NoError(t, err)
	assert.False(t, strict.HasRegistrationForm)
}

func TestScanFormResolvesLabels(t *testing.T) {
	scanned, err := scanForm("form", `<form>
		<label for="kid">Participant name</label>
		<input type="text" id="kid" name="p1">
		<label>Emergency contact <input type="text" name="ec"></label>
	</form>`)
	require.NoError(t, err)
	require.Len(t, scanned.Controls, 2)

	assert.Equal(t, "Participant name", scanned.Controls[0].Label)
	assert.Equal(t, "#kid", scanned.Controls[0].Selector)
	assert.Equal(t, "Emergency contact", scanned.Controls[1].Label)
	assert.Equal(t, `form [name="ec"]`, scanned.Controls[1].Selector)
}

func TestScanFormFindsSubmitVariants(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"input submit", `<form><input type="submit" value="Go"></form>`, true},
		{"typed button", `<form><button type="submit">Go</button></form>`, true},
		{"untyped button", `<form><button>Register</button></form>`, true},
		{"register caption on typed button", `<form><button type="button">Register now</button></form>`, true},
		{"no submit at all", `<form><input type="text" name="a"></form>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanned, err := scanForm("form", tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, scanned.SubmitSelector != "")
		})
	}
}
