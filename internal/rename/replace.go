package rename

import (
	"bytes"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPlaceholder is the token replaced when no placeholder is configured.
const DefaultPlaceholder = "PROJECT"

type pair struct {
	old, new string
}

// Replacer substitutes a placeholder with a replacement in a single pass, so
// a replacement that contains a placeholder form is never rewritten again.
// The exact form takes priority; with case variants the lower and title case
// forms of the placeholder map to the same forms of the replacement.
type Replacer struct {
	pairs []pair
	sr    *strings.Replacer
}

// NewReplacer builds a Replacer. caseVariants enables the lower and title case
// forms in addition to the exact placeholder.
func NewReplacer(placeholder, replacement string, caseVariants bool) *Replacer {
	r := &Replacer{pairs: []pair{{placeholder, replacement}}}
	if caseVariants {
		r.addCaseVariants()
	}

	oldnew := make([]string, 0, 2*len(r.pairs))
	for _, p := range r.pairs {
		oldnew = append(oldnew, p.old, p.new)
	}
	r.sr = strings.NewReplacer(oldnew...)
	return r
}

func (r *Replacer) addCaseVariants() {
	placeholder, replacement := r.pairs[0].old, r.pairs[0].new
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	for _, c := range []cases.Caser{lower, title} {
		p := pair{c.String(placeholder), c.String(replacement)}
		if p.old == "" || r.has(p.old) {
			continue
		}
		r.pairs = append(r.pairs, p)
	}
}

func (r *Replacer) has(old string) bool {
	for _, p := range r.pairs {
		if p.old == old {
			return true
		}
	}
	return false
}

// Placeholder returns the exact placeholder form.
func (r *Replacer) Placeholder() string { return r.pairs[0].old }

// Replacement returns the exact replacement form.
func (r *Replacer) Replacement() string { return r.pairs[0].new }

// Identity reports whether replacing would never change anything.
func (r *Replacer) Identity() bool {
	for _, p := range r.pairs {
		if p.old != p.new {
			return false
		}
	}
	return true
}

// Contains reports whether s holds any placeholder form.
func (r *Replacer) Contains(s string) bool {
	for _, p := range r.pairs {
		if strings.Contains(s, p.old) {
			return true
		}
	}
	return false
}

// ContainsBytes reports whether b holds any placeholder form.
func (r *Replacer) ContainsBytes(b []byte) bool {
	for _, p := range r.pairs {
		if bytes.Contains(b, []byte(p.old)) {
			return true
		}
	}
	return false
}

// ReplaceString replaces every placeholder form in s and reports whether the
// result differs from s.
func (r *Replacer) ReplaceString(s string) (string, bool) {
	out := r.sr.Replace(s)
	return out, out != s
}

// Replace replaces every placeholder form in b. Bytes that are not part of a
// match, including invalid UTF-8, are preserved.
func (r *Replacer) Replace(b []byte) ([]byte, bool) {
	if !r.ContainsBytes(b) {
		return b, false
	}
	out := []byte(r.sr.Replace(string(b)))
	return out, !bytes.Equal(out, b)
}
