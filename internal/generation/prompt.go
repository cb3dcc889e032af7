package generation

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxInputLength is the longest accepted input, in characters, after trimming.
const MaxInputLength = 5000

// Violation messages reported by CheckInput.
const (
	msgPromptRequired = "Prompt is required and must be a string"
	msgPromptEmpty    = "Prompt cannot be empty"
	msgPromptTooLong  = "Prompt is too long (maximum 5000 characters)"
)

// Prompt is the rendered request for a single generation call.
type Prompt struct {
	// System carries the role, context, rules and output format.
	System string
	// User carries the mode label followed by the user's text.
	User string
}

// CheckInput validates a prompt and mode together and reports every
// violated constraint in a single *ValidationError. A nil prompt means the
// caller supplied no text at all (or something that was not text).
func CheckInput(prompt *string, mode string) error {
	var violations []string

	switch {
	case prompt == nil:
		violations = append(violations, msgPromptRequired)
	default:
		trimmed := strings.TrimSpace(*prompt)
		if trimmed == "" {
			violations = append(violations, msgPromptEmpty)
		} else if utf8.RuneCountInString(trimmed) > MaxInputLength {
			violations = append(violations, msgPromptTooLong)
		}
	}

	if !Mode(mode).IsValid() {
		violations = append(violations, "Mode must be one of: "+ModeNames())
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// BuildPrompt validates rawInput and mode and renders the prompt for that
// mode. The same arguments always produce the same Prompt.
func BuildPrompt(rawInput, mode string) (Prompt, error) {
	if err := CheckInput(&rawInput, mode); err != nil {
		return Prompt{}, err
	}

	spec, err := LookupMode(mode)
	if err != nil {
		return Prompt{}, err
	}

	return Prompt{
		System: renderSystem(spec),
		User:   spec.InputLabel + rawInput,
	}, nil
}

func renderSystem(spec ModeSpec) string {
	var b strings.Builder
	b.WriteString(spec.Role)
	b.WriteString("\n\n")
	b.WriteString(spec.Context)
	b.WriteString("\n\nRULES:\n")
	for i, rule := range spec.Rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(rule)
	}
	b.WriteString("\n\nOUTPUT FORMAT:\n")
	b.WriteString(spec.OutputFormat)
	return b.String()
}
