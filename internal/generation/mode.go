package generation

import (
	"fmt"
	"strings"
)

// Mode identifies one of the fixed task types a user can request.
type Mode string

// Supported modes.
const (
	ModeExplain           Mode = "explain"
	ModeGenerateQuestions Mode = "generate_questions"
	ModeSummarize         Mode = "summarize"
	ModeImprove           Mode = "improve"
)

// ModeSpec is the immutable configuration for a mode: how the model is
// framed, which rules it must follow and what shape its answer takes.
type ModeSpec struct {
	Mode        Mode
	Label       string
	Description string

	// Role is the persona the model is asked to adopt.
	Role string
	// Context frames the situation the model is answering in.
	Context string
	// Rules are rendered 1-based, in order.
	Rules []string
	// OutputFormat is free-text instructions, or a JSON schema description
	// for structured modes.
	OutputFormat string
	// InputLabel prefixes the user's text in the user message.
	InputLabel string
	// Structured reports whether the expected output is JSON.
	Structured bool
}

// questionSchema is sent verbatim to the model as the output format for
// generate_questions. QuestionSet mirrors it.
const questionSchema = `You must respond ONLY with valid JSON in this exact structure:
{
  "questions": [
    {
      "question": "Question text here?",
      "options": {
        "A": "First option",
        "B": "Second option",
        "C": "Third option",
        "D": "Fourth option"
      },
      "correct": "A",
      "explanation": "Brief explanation of why this is correct"
    }
  ]
}`

var registry = []ModeSpec{
	{
		Mode:        ModeExplain,
		Label:       "Explain a Concept",
		Description: "Get a clear, beginner-friendly explanation of any concept",
		Role:        "You are an experienced university instructor with a talent for breaking down complex topics.",
		Context:     "You are helping a student who is encountering this concept for the first time.",
		Rules: []string{
			"Use simple, clear language appropriate for beginners",
			"Break down the concept into digestible parts",
			"Use analogies or real-world examples where helpful",
			"Keep your explanation under 200 words",
			"If the concept is unclear or you are uncertain, acknowledge this rather than guessing",
		},
		OutputFormat: "Provide a clear, structured explanation in paragraph form.",
		InputLabel:   "Concept to explain: ",
	},
	{
		Mode:        ModeGenerateQuestions,
		Label:       "Generate Multiple-Choice Questions",
		Description: "Create practice questions to test understanding",
		Role:        "You are an expert educator who creates fair, educational multiple-choice questions.",
		Context:     "You are creating assessment questions to test understanding of a given topic.",
		Rules: []string{
			"Generate exactly 3 multiple-choice questions",
			"Each question must have 4 options (A, B, C, D)",
			"Only one option should be correct",
			"Make distractors (wrong answers) plausible but clearly incorrect",
			"Vary the difficulty level across questions",
			"If the topic is too vague or you cannot create reliable questions, state this clearly",
		},
		OutputFormat: questionSchema,
		InputLabel:   "Topic: ",
		Structured:   true,
	},
	{
		Mode:        ModeSummarize,
		Label:       "Summarize Text",
		Description: "Get a concise summary with key takeaways",
		Role:        "You are a professional editor skilled at distilling complex information into clear summaries.",
		Context:     "You are helping a busy professional quickly understand the key points of a text.",
		Rules: []string{
			"Identify and extract only the most important information",
			"Maintain the original meaning and tone",
			"Use objective language without adding opinions",
			"Keep the summary to approximately 30% of the original length",
			"If the text is too short to summarize meaningfully, state this",
			"If key information is ambiguous, note this uncertainty",
		},
		OutputFormat: "Provide a concise summary in paragraph form, followed by 3-5 bullet points of key takeaways.",
		InputLabel:   "Text to summarize:\n\n",
	},
	{
		Mode:        ModeImprove,
		Label:       "Improve Writing Quality",
		Description: "Enhance grammar, clarity, and style",
		Role:        "You are a professional writing coach and editor.",
		Context:     "You are helping someone improve the clarity, grammar, and style of their writing.",
		Rules: []string{
			"Correct grammar, spelling, and punctuation errors",
			"Improve sentence structure and flow",
			"Enhance clarity and conciseness",
			"Maintain the original meaning and voice",
			"Use professional but approachable language",
			"If the writing is already excellent, say so and suggest only minor refinements",
		},
		OutputFormat: `First, provide the improved version. Then, in a separate section labeled "Changes Made:", briefly explain 2-3 major improvements.`,
		InputLabel:   "Text to improve:\n\n",
	},
}

// byName indexes registry; built once at init and never written again.
var byName = func() map[Mode]int {
	m := make(map[Mode]int, len(registry))
	for i, spec := range registry {
		m[spec.Mode] = i
	}
	return m
}()

// LookupMode returns the spec registered under name.
// It returns ErrUnknownMode when name is not a supported mode.
func LookupMode(name string) (ModeSpec, error) {
	i, ok := byName[Mode(name)]
	if !ok {
		return ModeSpec{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return registry[i].clone(), nil
}

// Modes returns every registered mode in declaration order.
func Modes() []ModeSpec {
	specs := make([]ModeSpec, len(registry))
	for i, spec := range registry {
		specs[i] = spec.clone()
	}
	return specs
}

// ModeNames returns the names of all registered modes, comma separated.
func ModeNames() string {
	names := make([]string, len(registry))
	for i, spec := range registry {
		names[i] = string(spec.Mode)
	}
	return strings.Join(names, ", ")
}

// IsValid reports whether m is a registered mode.
func (m Mode) IsValid() bool {
	_, ok := byName[m]
	return ok
}

// clone copies the rules slice so callers cannot mutate the registry.
func (s ModeSpec) clone() ModeSpec {
	s.Rules = append([]string(nil), s.Rules...)
	return s
}
