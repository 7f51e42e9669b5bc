package analyze

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/entrhq/registrar/pkg/classify"
)

// scannedForm is the static snapshot of one <form>: its controls with
// attributes and resolved label text, its visible text, and the first
// submit control found.
type scannedForm struct {
	Selector       string
	Text           string
	HTML           string
	Controls       []classify.Control
	SubmitSelector string
}

// submitTextWords are button captions that mark a control as the form's
// submit action even without type="submit".
var submitTextWords = []string{"submit", "register", "sign up", "rsvp", "book", "reserve", "enroll"}

// scanForm parses a form's outer HTML and extracts everything scoring
// and classification need, in a single pass over the parsed tree.
func scanForm(formSelector, rawHTML string) (*scannedForm, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse form HTML: %w", err)
	}

	form := &scannedForm{
		Selector: formSelector,
		HTML:     rawHTML,
	}

	labels := map[string]string{}
	collectLabels(doc, labels)

	var text strings.Builder
	walkForm(doc, form, labels, "", &text)
	form.Text = text.String()

	return form, nil
}

// collectLabels gathers <label for=...> text keyed by target id.
func collectLabels(n *html.Node, labels map[string]string) {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "label") {
		if forID := attr(n, "for"); forID != "" {
			labels[forID] = strings.TrimSpace(nodeText(n))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLabels(c, labels)
	}
}

// walkForm visits every node, recording controls, submit candidates and
// visible text. enclosingLabel carries the text of a wrapping <label>
// down to nested controls.
func walkForm(n *html.Node, form *scannedForm, labels map[string]string, enclosingLabel string, text *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			text.WriteString(t)
			text.WriteString(" ")
		}
		return
	case n.Type != html.ElementNode && n.Type != html.DocumentNode:
		return
	}

	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript":
			return
		case "label":
			enclosingLabel = strings.TrimSpace(nodeText(n))
		case "input":
			inputType := strings.ToLower(attr(n, "type"))
			switch inputType {
			case "submit", "image":
				if form.SubmitSelector == "" {
					form.SubmitSelector = controlSelector(form.Selector, n, "input[type=\"submit\"]")
				}
			case "hidden", "button", "reset":
				// not fillable, not a submit action
			default:
				form.Controls = append(form.Controls, controlFromNode(form.Selector, n, labels, enclosingLabel))
			}
		case "textarea", "select":
			form.Controls = append(form.Controls, controlFromNode(form.Selector, n, labels, enclosingLabel))
		case "button":
			buttonType := strings.ToLower(attr(n, "type"))
			caption := strings.ToLower(nodeText(n))
			isSubmit := buttonType == "submit" || buttonType == ""
			if !isSubmit {
				for _, w := range submitTextWords {
					if strings.Contains(caption, w) {
						isSubmit = true
						break
					}
				}
			}
			if isSubmit && form.SubmitSelector == "" {
				form.SubmitSelector = controlSelector(form.Selector, n, "button")
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkForm(c, form, labels, enclosingLabel, text)
	}
}

// controlFromNode snapshots a control's attributes into a classify.Control.
func controlFromNode(formSelector string, n *html.Node, labels map[string]string, enclosingLabel string) classify.Control {
	id := attr(n, "id")
	label := enclosingLabel
	if id != "" {
		if l, ok := labels[id]; ok && l != "" {
			label = l
		}
	}
	return classify.Control{
		Name:        attr(n, "name"),
		ID:          id,
		Placeholder: attr(n, "placeholder"),
		Label:       label,
		InputType:   strings.ToLower(attr(n, "type")),
		Selector:    controlSelector(formSelector, n, strings.ToLower(n.Data)),
	}
}

// controlSelector builds a selector that finds the control again at fill
// time: id wins, then a name match scoped to the form, then a
// placeholder match.
func controlSelector(formSelector string, n *html.Node, fallbackTag string) string {
	if id := attr(n, "id"); id != "" {
		return "#" + id
	}
	if name := attr(n, "name"); name != "" {
		return fmt.Sprintf(`%s [name="%s"]`, formSelector, name)
	}
	if placeholder := attr(n, "placeholder"); placeholder != "" {
		return fmt.Sprintf(`%s [placeholder="%s"]`, formSelector, placeholder)
	}
	return fmt.Sprintf("%s %s", formSelector, fallbackTag)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
