// Package scoring defines post-session conversation assessment. A Scorecard
// is produced after the session closes, from the finalized transcript.
package scoring

import "context"

// Scorecard grades a finished conversation. Scores are on a 0-100 scale.
type Scorecard struct {
	Overall    int `json:"overall" jsonschema:"description=Overall conversation quality score from 0 to 100"`
	Fluency    int `json:"fluency" jsonschema:"description=How smoothly and naturally the user expressed themselves from 0 to 100"`
	Vocabulary int `json:"vocabulary" jsonschema:"description=Range and appropriateness of the vocabulary the user used from 0 to 100"`
	Engagement int `json:"engagement" jsonschema:"description=How actively the user drove the conversation forward from 0 to 100"`

	Commentary string `json:"commentary" jsonschema:"description=Two or three sentences of concrete feedback for the user"`

	// Placeholder marks a scorecard that was substituted because analysis
	// failed or no analyzer was configured.
	Placeholder bool `json:"-"`
}

// Analyzer grades a finished conversation transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*Scorecard, error)
}

// PlaceholderScorecard is returned when no analysis could run. All scores
// are zero and the commentary says so outright.
func PlaceholderScorecard() *Scorecard {
	return &Scorecard{
		Commentary:  "Scoring was unavailable for this session.",
		Placeholder: true,
	}
}
