// Package sanitize turns raw recommendation payloads into content that is
// safe to render.
package sanitize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Policy names accepted by New.
const (
	PolicyUGC    = "ugc"
	PolicyStrict = "strict"
)

// responseField is the payload field carrying the recommendation text.
const responseField = "response"

// Recommendation is the renderable form of a backend response.
type Recommendation struct {
	// Markup is sanitized HTML with every newline sequence removed.
	Markup string
	// Text is the human-readable text content of Markup.
	Text string
}

// MalformedResponseError reports a payload without a usable response field.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// newlines strips real line breaks as well as the escaped "\n" sequences the
// backend leaves in its text.
var newlines = strings.NewReplacer(
	"\r\n", "",
	"\n", "",
	"\r", "",
	`\r\n`, "",
	`\n`, "",
	`\r`, "",
)

// Sanitizer validates payloads and sanitizes their markup.
// It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer for the named policy. "ugc" keeps formatting markup
// (links, emphasis, lists); "strict" removes every tag.
func New(policy string) (*Sanitizer, error) {
	switch policy {
	case PolicyUGC, "":
		return &Sanitizer{policy: bluemonday.UGCPolicy()}, nil
	case PolicyStrict:
		return &Sanitizer{policy: bluemonday.StrictPolicy()}, nil
	default:
		return nil, fmt.Errorf("unknown sanitizer policy %q", policy)
	}
}

// Sanitize extracts the response field from payload and returns it flattened
// to a single block and stripped of unsafe markup.
func (s *Sanitizer) Sanitize(payload []byte) (Recommendation, error) {
	text, err := responseText(payload)
	if err != nil {
		return Recommendation{}, err
	}
	return s.Clean(text)
}

// Clean sanitizes a recommendation string that is already known to be valid.
func (s *Sanitizer) Clean(text string) (Recommendation, error) {
	markup := s.policy.Sanitize(newlines.Replace(text))

	plain, err := plainText(markup)
	if err != nil {
		return Recommendation{}, &MalformedResponseError{Reason: "unparseable markup", Err: err}
	}
	return Recommendation{Markup: markup, Text: plain}, nil
}

func responseText(payload []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", &MalformedResponseError{Reason: "payload is not a JSON object", Err: err}
	}

	raw, ok := fields[responseField]
	if !ok {
		return "", &MalformedResponseError{Reason: "missing " + responseField + " field"}
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", &MalformedResponseError{Reason: responseField + " field is null"}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", &MalformedResponseError{Reason: responseField + " field is not a string", Err: err}
	}
	return text, nil
}

func plainText(markup string) (string, error) {
	if markup == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Text()), nil
}
