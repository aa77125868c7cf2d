package security

import (
	"regexp"
	"strings"
)

const (
	// RedactedPlaceholder replaces secrets found in error text.
	RedactedPlaceholder = "****"

	// GenericInternalDetail is returned to clients when internal error text is hidden.
	GenericInternalDetail = "Internal Server Error"

	// minSecretLength is the shortest configured secret masked verbatim.
	// Shorter values match too much unrelated text.
	minSecretLength = 4
)

// credentialPatterns match DSN and URL fragments that carry credentials.
var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password\s*=\s*)('(?:[^'\\]|\\.)*'|"[^"]*"|\S+)`),
	regexp.MustCompile(`(?i)(\w+://[^:/\s]+:)([^@\s]+)(@)`),
}

// Redactor turns internal errors into client-facing detail strings.
type Redactor struct {
	expose  bool
	secrets []string
}

// NewRedactor creates a Redactor. When expose is false every internal error
// becomes GenericInternalDetail; otherwise its text is returned with the given
// secrets and credential fragments masked. Secrets shorter than four bytes
// are ignored; password= and URL credential fragments are masked regardless.
func NewRedactor(expose bool, secrets ...string) *Redactor {
	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if len(s) >= minSecretLength {
			kept = append(kept, s)
		}
	}
	return &Redactor{expose: expose, secrets: kept}
}

// Detail returns the client-facing text for err.
// A nil Redactor exposes the raw error text.
func (r *Redactor) Detail(err error) string {
	if err == nil {
		return ""
	}
	if r == nil {
		return err.Error()
	}
	if !r.expose {
		return GenericInternalDetail
	}
	return r.Redact(err.Error())
}

// Redact masks known secrets and credential fragments in msg.
func (r *Redactor) Redact(msg string) string {
	for _, p := range credentialPatterns {
		msg = p.ReplaceAllString(msg, "${1}"+RedactedPlaceholder+"${3}")
	}
	if r != nil {
		for _, s := range r.secrets {
			msg = strings.ReplaceAll(msg, s, RedactedPlaceholder)
		}
	}
	return msg
}
