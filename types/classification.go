package types

// Classification is the per-request result of the query classifier.
type Classification struct {
	Language           string `json:"language"`
	NeedsWebSearch     bool   `json:"needs_web_search"`
	InternationalTopic bool   `json:"international_topic"`
	PsychologicalTopic bool   `json:"psychological_topic"`

	// Institution is the name captured by the specific-institution
	// pattern, empty when the query did not match one.
	Institution string `json:"institution,omitempty"`
}
