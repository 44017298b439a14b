package waiter

import (
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// MatchMode is the outcome a waiter acceptor assigns when its matcher
// matches the observed state.
type MatchMode string

// Acceptor match outcomes.
const (
	MatchSuccess MatchMode = "success"
	MatchFailure MatchMode = "failure"
	MatchRetry   MatchMode = "retry"
)

// JMESPathMatcher evaluates a JMESPath expression against an operation's
// output (or error) and compares the result against an expected value,
// implementing the `jmespath` and `jmespathAnyMatches`/`jmespathAllMatches`
// waiter acceptor matcher kinds.
type JMESPathMatcher struct {
	Path     string
	Expected any

	// Quantifier controls how a list result is reduced to a boolean: "" (or
	// "path") compares the path's result directly, "any" matches if any
	// element of a list result equals Expected, "all" requires every
	// element to equal Expected.
	Quantifier string

	expr *jmespath.JMESPath
}

// Compile parses the matcher's JMESPath expression, returning a usable
// matcher or a compile error surfaced at waiter construction time rather
// than on first use.
func (m *JMESPathMatcher) Compile() error {
	expr, err := jmespath.Compile(m.Path)
	if err != nil {
		return fmt.Errorf("compile waiter jmespath %q: %w", m.Path, err)
	}
	m.expr = expr
	return nil
}

// Match evaluates the matcher against data (the operation's modeled output
// or error, as a plain Go value/map).
func (m *JMESPathMatcher) Match(data any) (matched bool, err error) {
	if m.expr == nil {
		if err := m.Compile(); err != nil {
			return false, err
		}
	}

	result, err := m.expr.Search(data)
	if err != nil {
		return false, fmt.Errorf("evaluate waiter jmespath %q: %w", m.Path, err)
	}

	switch m.Quantifier {
	case "any", "all":
		list, ok := result.([]any)
		if !ok {
			return false, nil
		}
		if len(list) == 0 {
			return m.Quantifier == "all" && false, nil
		}
		for _, v := range list {
			eq := jmespathEqual(v, m.Expected)
			if m.Quantifier == "any" && eq {
				return true, nil
			}
			if m.Quantifier == "all" && !eq {
				return false, nil
			}
		}
		return m.Quantifier == "all", nil
	default:
		return jmespathEqual(result, m.Expected), nil
	}
}

// jmespathEqual compares a JMESPath search result against an expected value:
// a string expected value (waiter `expected` fields are modeled as strings)
// is compared with the result's %v string form, so a boolean or number
// result matches its string spelling; any other expected value is compared
// by Go equality.
func jmespathEqual(got, want any) bool {
	switch w := want.(type) {
	case string:
		return fmt.Sprintf("%v", got) == w
	default:
		return got == w
	}
}

// Acceptor pairs a matcher with the outcome it signals when it matches, the
// unit a waiter's state machine is built from.
type Acceptor struct {
	Matcher *JMESPathMatcher
	State   MatchMode
}

// Evaluate returns the first acceptor in order whose matcher matches data,
// or ("", false) if none do, in which case the waiter's default retry
// behavior applies.
func Evaluate(acceptors []Acceptor, data any) (MatchMode, bool, error) {
	for _, a := range acceptors {
		matched, err := a.Matcher.Match(data)
		if err != nil {
			return "", false, err
		}
		if matched {
			return a.State, true, nil
		}
	}
	return "", false, nil
}
