package insights

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type ChildSummary struct {
	ChildID   string `json:"child_id"`
	ChildName string `json:"child_name"`
	Summary   string `json:"summary"`
}

// BehaviorResult is the analyze-behavior payload. NoNotes marks the
// 200-with-error-field case where the family has nothing recorded yet.
type BehaviorResult struct {
	ChildSummaries []ChildSummary `json:"child_summaries"`
	TopHashtags    []TagCount     `json:"top_hashtags"`
	Encouragement  string         `json:"encouragement"`
	NoNotes        bool           `json:"-"`
}

// ChildNotes bundles a child with their recent transcripts for prompting.
type ChildNotes struct {
	ChildID     string
	ChildName   string
	Transcripts []string
}
