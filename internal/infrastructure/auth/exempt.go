package auth

import (
	"log/slog"
	"regexp"
	"strings"
)

// ExemptRule describes a (path, method) combination that bypasses the
// authorization gate. A rule matches by literal path or by pattern; an empty
// method set matches every method.
type ExemptRule struct {
	path    string
	pattern *regexp.Regexp
	methods map[string]struct{}
}

func ExemptPath(path string, methods ...string) ExemptRule {
	return ExemptRule{path: path, methods: methodSet(methods)}
}

// ExemptPattern panics on an invalid expression. Rules are static
// configuration, so a bad pattern is a startup error.
func ExemptPattern(expr string, methods ...string) ExemptRule {
	return ExemptRule{pattern: regexp.MustCompile(expr), methods: methodSet(methods)}
}

func methodSet(methods []string) map[string]struct{} {
	if len(methods) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[strings.ToUpper(m)] = struct{}{}
	}
	return set
}

func (r ExemptRule) matches(path string) bool {
	if r.pattern != nil {
		return r.pattern.MatchString(path)
	}
	return r.path == path
}

func (r ExemptRule) allows(method string) bool {
	if len(r.methods) == 0 {
		return true
	}
	_, ok := r.methods[strings.ToUpper(method)]
	return ok
}

func (r ExemptRule) key() string {
	if r.pattern != nil {
		return r.pattern.String()
	}
	return r.path
}

// Exemptions is the immutable rule set evaluated against the raw request
// path before routing.
type Exemptions struct {
	rules []ExemptRule
}

// NewExemptions resolves duplicate rules for the same path or pattern:
// the last declaration replaces the earlier ones, and a conflicting
// duplicate is logged instead of failing silently. Distinct rules are
// independent of each other.
func NewExemptions(rules ...ExemptRule) *Exemptions {
	deduped := make([]ExemptRule, 0, len(rules))
	index := make(map[string]int, len(rules))
	for _, r := range rules {
		key := r.key()
		if i, ok := index[key]; ok {
			if !sameMethods(ruleMethods(deduped[i]), ruleMethods(r)) {
				slog.Warn("ambiguous exemption rules for path, last rule wins",
					"path", key,
					"previous_methods", ruleMethods(deduped[i]),
					"methods", ruleMethods(r))
			}
			deduped[i] = r
			continue
		}
		index[key] = len(deduped)
		deduped = append(deduped, r)
	}
	return &Exemptions{rules: deduped}
}

// IsExempt reports whether the (path, method) pair bypasses authorization.
// A request is exempt if at least one rule matches the path and allows
// the method.
func (e *Exemptions) IsExempt(path, method string) bool {
	for _, r := range e.rules {
		if r.matches(path) && r.allows(method) {
			return true
		}
	}
	return false
}

func ruleMethods(r ExemptRule) []string {
	methods := make([]string, 0, len(r.methods))
	for m := range r.methods {
		methods = append(methods, m)
	}
	return methods
}

func sameMethods(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, m := range a {
		set[m] = struct{}{}
	}
	for _, m := range b {
		if _, ok := set[m]; !ok {
			return false
		}
	}
	return true
}
