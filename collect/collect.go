// Package collect implements the interactive attribute collection state
// machine. One attribute is validated at a time: length check, emptiness
// check, then a semantic validator with a bounded retry budget. The machine
// is strictly sequential and owns its state until it becomes terminal, after
// which the rendered request string is the only thing consumers read.
package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validator classifies one free-text attribute value. Implementations must
// fail open: an internal error (timeout, malformed response) is reported as
// valid so the interactive flow never blocks on a flaky dependency.
type Validator interface {
	Validate(ctx context.Context, attribute, input string) bool
}

// AttributeSpec describes one attribute to collect. A non-empty Allowed set
// turns the attribute into an enumeration: values are checked by exact,
// case-sensitive membership instead of the lenient semantic validator.
type AttributeSpec struct {
	Name    string
	Allowed []string
}

// Restricted reports whether the attribute only admits enumerated values.
func (a AttributeSpec) Restricted() bool { return len(a.Allowed) > 0 }

// Outcome labels the result of a single Advance call.
type Outcome int

const (
	// Accepted means the value passed validation and the index advanced.
	Accepted Outcome = iota
	// ForceAccepted means the retry budget ran out and the last value was
	// stored despite failing validation. Deliberate escape hatch: the
	// interaction must never deadlock on a stubborn input.
	ForceAccepted
	// RejectedTooLong means the input exceeded the character limit.
	RejectedTooLong
	// RejectedEmpty means the input was empty or whitespace-only.
	RejectedEmpty
	// RejectedInvalid means the validator declined the value.
	RejectedInvalid
)

// Step reports what a single Advance call did, with a user-facing message.
type Step struct {
	Outcome   Outcome
	Attribute string
	Message   string
	// Remaining is the number of attempts left after a rejection.
	Remaining int
}

// ErrComplete is returned by Advance once the session is terminal.
var ErrComplete = errors.New("collection already complete")

// Params fixes the immutable inputs of a collection session.
type Params struct {
	Attributes []AttributeSpec
	// Songs parameterizes the rendered request header.
	Songs       int
	MaxChars    int
	MaxAttempts int
}

// Session is the collection state machine. Create one per interactive
// session; it is not safe for concurrent use and does not need to be.
type Session struct {
	params    Params
	validator Validator

	index    int
	attempts int
	values   map[string]string
	done     bool
	rendered string
}

// NewSession builds a fresh session at index zero with an empty mapping.
func NewSession(params Params, validator Validator) *Session {
	return &Session{
		params:    params,
		validator: validator,
		values:    make(map[string]string, len(params.Attributes)),
	}
}

// Done reports whether every attribute has been collected.
func (s *Session) Done() bool { return s.done }

// Current returns the attribute being collected. Callers must check Done
// first; a terminal session has no current attribute.
func (s *Session) Current() AttributeSpec {
	return s.params.Attributes[s.index]
}

// Prompt renders the question for the current attribute, listing the allowed
// values for restricted attributes.
func (s *Session) Prompt() string {
	attr := s.Current()
	if attr.Restricted() {
		return fmt.Sprintf("Please describe the %s [%s]: ", attr.Name, strings.Join(attr.Allowed, ", "))
	}
	return fmt.Sprintf("Please describe the %s: ", attr.Name)
}

// Value returns the accepted value for an attribute, if any.
func (s *Session) Value(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Advance processes one raw user input for the current attribute. Every call
// mutates the session exactly once: either the retry counter increments or
// the value is stored and the index advances. When the final attribute is
// accepted the session becomes terminal and the request string is rendered.
func (s *Session) Advance(ctx context.Context, raw string) (Step, error) {
	if s.done {
		return Step{}, ErrComplete
	}
	attr := s.Current()
	trimmed := strings.TrimSpace(raw)

	if utf8.RuneCountInString(raw) > s.params.MaxChars {
		return s.reject(attr, RejectedTooLong, trimmed,
			fmt.Sprintf("Input too long (max %d characters). Please try again.", s.params.MaxChars)), nil
	}
	if trimmed == "" {
		return s.reject(attr, RejectedEmpty, trimmed, "Input cannot be empty. Please try again."), nil
	}
	if s.valid(ctx, attr, trimmed) {
		s.accept(attr, trimmed)
		return Step{
			Outcome:   Accepted,
			Attribute: attr.Name,
			Message:   fmt.Sprintf("Valid %s", attr.Name),
		}, nil
	}
	return s.reject(attr, RejectedInvalid, trimmed,
		fmt.Sprintf("Invalid %s. Please provide a valid %s.", attr.Name, attr.Name)), nil
}

// valid applies the mode restriction for enumerated attributes and the
// semantic validator for everything else. Restricted attributes are matched
// exactly: case and punctuation both count.
func (s *Session) valid(ctx context.Context, attr AttributeSpec, input string) bool {
	if attr.Restricted() {
		for _, allowed := range attr.Allowed {
			if input == allowed {
				return true
			}
		}
		return false
	}
	return s.validator.Validate(ctx, attr.Name, input)
}

// reject increments the retry counter, or force-accepts the trimmed value
// when the budget is exhausted so the machine always terminates within
// MaxAttempts calls per attribute.
func (s *Session) reject(attr AttributeSpec, outcome Outcome, trimmed, message string) Step {
	if s.attempts+1 >= s.params.MaxAttempts {
		s.accept(attr, trimmed)
		return Step{
			Outcome:   ForceAccepted,
			Attribute: attr.Name,
			Message:   "Maximum attempts reached. Using your last input anyway.",
		}
	}
	s.attempts++
	remaining := s.params.MaxAttempts - s.attempts
	if outcome == RejectedInvalid {
		message = fmt.Sprintf("%s (%d attempts remaining)", message, remaining)
	}
	return Step{
		Outcome:   outcome,
		Attribute: attr.Name,
		Message:   message,
		Remaining: remaining,
	}
}

// accept stores the value, advances the index, resets the retry counter and
// renders the final request once the last attribute is in.
func (s *Session) accept(attr AttributeSpec, value string) {
	s.values[attr.Name] = value
	s.index++
	s.attempts = 0
	if s.index == len(s.params.Attributes) {
		s.done = true
		s.rendered = Render(s.params.Songs, s.params.Attributes, s.values)
	}
}

// FinalPrompt returns the rendered request string. Empty until terminal.
func (s *Session) FinalPrompt() string { return s.rendered }

// Render produces the request string from a collected mapping. It is a pure
// function of the attribute order and values, so re-rendering the same
// mapping always yields the same string.
func Render(songs int, attributes []AttributeSpec, values map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please generate %d song recommendations based on the following criteria:\n", songs)
	for _, attr := range attributes {
		if value, ok := values[attr.Name]; ok {
			fmt.Fprintf(&b, "%s: %s\n", attr.Name, value)
		}
	}
	return b.String()
}

// Specs converts plain attribute names into specs, attaching the enumerated
// restriction for the "mode" attribute.
func Specs(names []string) []AttributeSpec {
	specs := make([]AttributeSpec, 0, len(names))
	for _, name := range names {
		spec := AttributeSpec{Name: name}
		if name == "mode" {
			spec.Allowed = []string{"find_for_given_artists", "find_new_artists"}
		}
		specs = append(specs, spec)
	}
	return specs
}
