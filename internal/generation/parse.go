package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// QuestionParseError is the user-facing message attached to a degraded
// generate_questions result.
const QuestionParseError = "Failed to generate properly formatted questions. Please try again."

// QuestionCount is the number of questions a question set must contain.
const QuestionCount = 3

// Errors describing why a structured reply was rejected. They never leave
// the parser; callers only see Result.ParseError.
var (
	errNoJSONObject   = errors.New("no JSON object found in response")
	errMalformedJSON  = errors.New("response JSON is malformed")
	errSchemaMismatch = errors.New("response JSON does not match the question schema")
)

// QuestionSet is the structured answer for generate_questions.
type QuestionSet struct {
	Questions []Question `json:"questions" validate:"len=3,dive"`
}

// Question is one multiple-choice question.
type Question struct {
	Question    string          `json:"question"    validate:"required"`
	Options     QuestionOptions `json:"options"`
	Correct     string          `json:"correct"     validate:"required,oneof=A B C D"`
	Explanation string          `json:"explanation" validate:"required"`
}

// QuestionOptions holds the four answer choices.
type QuestionOptions struct {
	A string `json:"A" validate:"required"`
	B string `json:"B" validate:"required"`
	C string `json:"C" validate:"required"`
	D string `json:"D" validate:"required"`
}

// schemaValidator is safe for concurrent use and caches struct metadata.
var schemaValidator = validator.New()

// Result is the normalised outcome of a successful provider call.
type Result struct {
	Mode Mode
	// Text is the answer for free-text modes.
	Text string
	// Questions is the answer for generate_questions; nil when the reply
	// could not be parsed.
	Questions *QuestionSet
	// Raw is the provider's reply, unchanged.
	Raw string
	// ParseError is set when a structured reply failed validation.
	ParseError string
}

// Degraded reports whether a structured reply failed validation.
func (r Result) Degraded() bool {
	return r.ParseError != ""
}

// Response returns the answer in its wire form: a string for free-text
// modes, the question set for generate_questions, or nil when degraded.
func (r Result) Response() any {
	spec, err := LookupMode(string(r.Mode))
	if err == nil && !spec.Structured {
		return r.Text
	}
	if r.Questions == nil {
		return nil
	}
	return r.Questions
}

type resultJSON struct {
	Mode       Mode   `json:"mode"`
	Response   any    `json:"response"`
	Raw        string `json:"raw"`
	ParseError string `json:"parseError,omitempty"`
}

// MarshalJSON renders the result as {mode, response, raw, parseError?}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Mode:       r.Mode,
		Response:   r.Response(),
		Raw:        r.Raw,
		ParseError: r.ParseError,
	})
}

// ParseResponse normalises the provider's raw text for mode. It never fails:
// a structured reply that cannot be parsed produces a degraded Result that
// still carries Raw so the caller can recover or retry.
func ParseResponse(raw string, mode Mode) Result {
	result, _ := parse(raw, mode)
	return result
}

// parse is ParseResponse that also returns why a structured reply was
// degraded, for logging.
func parse(raw string, mode Mode) (Result, error) {
	result := Result{Mode: mode, Raw: raw}

	spec, err := LookupMode(string(mode))
	if err != nil || !spec.Structured {
		result.Text = raw
		return result, nil
	}

	questions, err := parseQuestionSet(raw)
	if err != nil {
		result.ParseError = QuestionParseError
		return result, err
	}
	result.Questions = questions
	return result, nil
}

// parseQuestionSet runs the two parsing stages and reports which one failed.
func parseQuestionSet(raw string) (*QuestionSet, error) {
	span, ok := locateObject(raw)
	if !ok {
		return nil, errNoJSONObject
	}
	return decodeQuestionSet(span)
}

// locateObject returns the text from the first '{' through the last '}'.
// Models often wrap JSON in prose or code fences, so the span is a
// candidate only; decodeQuestionSet decides whether it is usable.
func locateObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(raw, '}')
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// decodeQuestionSet parses span and checks it against the question schema.
// Only structure is checked, never the correctness of the content. Keys must
// match exactly; encoding/json alone would also accept "QUESTIONS" or
// "Correct".
func decodeQuestionSet(span string) (*QuestionSet, error) {
	var top jsonObject
	if err := json.Unmarshal([]byte(span), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedJSON, err)
	}

	var items []jsonObject
	if err := top.field("questions", &items); err != nil {
		return nil, err
	}

	set := QuestionSet{Questions: make([]Question, 0, len(items))}
	for i, item := range items {
		q, err := decodeQuestion(item)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		set.Questions = append(set.Questions, q)
	}

	if err := schemaValidator.Struct(set); err != nil {
		return nil, fmt.Errorf("%w: %v", errSchemaMismatch, err)
	}
	return &set, nil
}

func decodeQuestion(item jsonObject) (Question, error) {
	var (
		q       Question
		options jsonObject
	)
	for _, f := range []struct {
		key string
		dst any
	}{
		{"question", &q.Question},
		{"options", &options},
		{"correct", &q.Correct},
		{"explanation", &q.Explanation},
	} {
		if err := item.field(f.key, f.dst); err != nil {
			return Question{}, err
		}
	}

	for key, dst := range map[string]*string{
		"A": &q.Options.A,
		"B": &q.Options.B,
		"C": &q.Options.C,
		"D": &q.Options.D,
	} {
		if err := options.field(key, dst); err != nil {
			return Question{}, err
		}
	}
	return q, nil
}

// jsonObject is a decoded JSON object whose values are still raw.
type jsonObject map[string]json.RawMessage

// field decodes the value stored under exactly key into dst. A missing key
// leaves dst untouched so the schema validator reports it.
func (o jsonObject) field(key string, dst any) error {
	raw, ok := o[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: field %q: %v", errSchemaMismatch, key, err)
	}
	return nil
}
