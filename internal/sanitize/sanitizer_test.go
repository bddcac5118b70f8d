package sanitize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUGC(t *testing.T) *Sanitizer {
	t.Helper()
	s, err := New(PolicyUGC)
	require.NoError(t, err)
	return s
}

func TestSanitize_StripsNewlines(t *testing.T) {
	s := newUGC(t)

	rec, err := s.Sanitize([]byte(`{"response": "Line1\nLine2"}`))
	require.NoError(t, err)

	assert.Equal(t, "Line1Line2", rec.Text)
	assert.Equal(t, "Line1Line2", rec.Markup)
	assert.NotContains(t, rec.Markup, "\n")
}

func TestSanitize_StripsEscapedAndCarriageReturns(t *testing.T) {
	s := newUGC(t)

	// The JSON below decodes to a string holding a literal backslash-n and a CRLF.
	rec, err := s.Sanitize([]byte(`{"response": "Shake\\nStrain\r\nServe\rEnjoy"}`))
	require.NoError(t, err)

	assert.Equal(t, "ShakeStrainServeEnjoy", rec.Text)
}

func TestSanitize_PlainRecommendation(t *testing.T) {
	s := newUGC(t)

	rec, err := s.Sanitize([]byte(`{"response": "Try a Daiquiri", "status": "success"}`))
	require.NoError(t, err)

	assert.Equal(t, "Try a Daiquiri", rec.Text)
	assert.Equal(t, "Try a Daiquiri", rec.Markup)
}

func TestSanitize_RemovesScriptsAndHandlers(t *testing.T) {
	s := newUGC(t)

	payload := `{"response": "<b>Negroni</b><script>alert(1)</script><img src=x onerror=\"alert(2)\">"}`
	rec, err := s.Sanitize([]byte(payload))
	require.NoError(t, err)

	assert.Contains(t, rec.Markup, "<b>Negroni</b>")
	assert.NotContains(t, rec.Markup, "<script")
	assert.NotContains(t, rec.Markup, "onerror")
	assert.NotContains(t, rec.Text, "alert")
	assert.Equal(t, "Negroni", rec.Text)
}

func TestSanitize_StrictPolicyDropsTags(t *testing.T) {
	s, err := New(PolicyStrict)
	require.NoError(t, err)

	rec, err := s.Sanitize([]byte(`{"response": "<em>Old</em> Fashioned"}`))
	require.NoError(t, err)

	assert.False(t, strings.Contains(rec.Markup, "<em>"))
	assert.Equal(t, "Old Fashioned", rec.Text)
}

func TestSanitize_EscapedEntitiesRoundTripToText(t *testing.T) {
	s := newUGC(t)

	rec, err := s.Sanitize([]byte(`{"response": "Rum & Coke, the bartender's pick"}`))
	require.NoError(t, err)

	assert.Equal(t, "Rum & Coke, the bartender's pick", rec.Text)
}

func TestSanitize_EmptyResponse(t *testing.T) {
	s := newUGC(t)

	rec, err := s.Sanitize([]byte(`{"response": ""}`))
	require.NoError(t, err)
	assert.Equal(t, Recommendation{}, rec)
}

func TestSanitize_Malformed(t *testing.T) {
	s := newUGC(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `<html>502 Bad Gateway</html>`},
		{"array", `["Try a Daiquiri"]`},
		{"missing field", `{"name": "Daiquiri"}`},
		{"null field", `{"response": null}`},
		{"number field", `{"response": 42}`},
		{"object field", `{"response": {"text": "Daiquiri"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Sanitize([]byte(tt.payload))
			require.Error(t, err)

			var malformed *MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "expected MalformedResponseError, got %T", err)
		})
	}
}

func TestNew_UnknownPolicy(t *testing.T) {
	_, err := New("permissive")
	assert.Error(t, err)
}
