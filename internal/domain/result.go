package domain

// EmptyReason explains why a run finished without any group summaries.
type EmptyReason string

const (
	NotEmpty             EmptyReason = ""
	EmptyNoURLs          EmptyReason = "no_urls_discovered"
	EmptyNoValidArticles EmptyReason = "no_valid_articles"
)

// Result is the outcome of one pipeline run. Either Groups is non-empty or
// Empty names the reason nothing was produced.
type Result struct {
	Keyword    string         `json:"keyword"`
	Groups     []GroupSummary `json:"groups"`
	Empty      EmptyReason    `json:"empty_reason,omitempty"`
	Discovered int            `json:"discovered"`
	Extracted  int            `json:"extracted"`
	Valid      int            `json:"valid"`
}

// IsEmpty reports whether the run produced no summaries.
func (r Result) IsEmpty() bool {
	return len(r.Groups) == 0
}

// GenerationRequest carries one text-generation call.
type GenerationRequest struct {
	SystemInstruction string
	Content           string
	MaxTokens         int
	Temperature       float64
}
