package graph

// ScoreInput carries the per-concept signals a Scorer may blend. Max values
// are taken over the non-merged concepts of the same class and are always
// at least 1.
type ScoreInput struct {
	DocumentFrequency    int
	MaxDocumentFrequency int
	MentionCount         int
	MaxMentionCount      int
	WeightedDegree       float64
	DegreeScale          float64
}

// Scorer computes a concept importance score in [0, 1] from graph signals.
// Implementations must be pure so rescoring a class is order-independent.
type Scorer interface {
	Score(in ScoreInput) float64
}

// FrequencyDegreeScorer blends normalized document frequency with weighted
// edge degree. This is the default scoring strategy.
type FrequencyDegreeScorer struct {
	DocWeight    float64
	DegreeWeight float64
}

// NewFrequencyDegreeScorer returns the default 0.6 document / 0.4 degree
// blend.
func NewFrequencyDegreeScorer() FrequencyDegreeScorer {
	return FrequencyDegreeScorer{DocWeight: 0.6, DegreeWeight: 0.4}
}

func (s FrequencyDegreeScorer) Score(in ScoreInput) float64 {
	maxDF := in.MaxDocumentFrequency
	if maxDF < 1 {
		maxDF = 1
	}
	scale := in.DegreeScale
	if scale <= 0 {
		scale = 25
	}
	normDF := float64(in.DocumentFrequency) / float64(maxDF)
	normDegree := min(1.0, in.WeightedDegree/scale)
	return s.DocWeight*normDF + s.DegreeWeight*normDegree
}

// MentionDegreeScorer blends raw mention counts with weighted edge degree.
// Compared to the default it rewards concepts a single document hammers on
// repeatedly, not just concepts spread across documents.
type MentionDegreeScorer struct {
	MentionWeight float64
	DegreeWeight  float64
}

// NewMentionDegreeScorer returns the 0.7 mention / 0.3 degree blend.
func NewMentionDegreeScorer() MentionDegreeScorer {
	return MentionDegreeScorer{MentionWeight: 0.7, DegreeWeight: 0.3}
}

func (s MentionDegreeScorer) Score(in ScoreInput) float64 {
	maxMentions := in.MaxMentionCount
	if maxMentions < 1 {
		maxMentions = 1
	}
	scale := in.DegreeScale
	if scale <= 0 {
		scale = 25
	}
	normMentions := min(1.0, float64(in.MentionCount)/float64(maxMentions))
	normDegree := min(1.0, in.WeightedDegree/scale)
	return s.MentionWeight*normMentions + s.DegreeWeight*normDegree
}

// ImportanceBucket maps a [0, 1] importance score to a display bucket.
func ImportanceBucket(score float64) string {
	if score >= 0.8 {
		return "core"
	}
	if score >= 0.5 {
		return "important"
	}
	return "advanced"
}

// DifficultyBucket maps a [0, 1] difficulty level to a display bucket.
func DifficultyBucket(level float64) string {
	if level >= 0.8 {
		return "hard"
	}
	if level >= 0.5 {
		return "medium"
	}
	return "easy"
}

// DifficultyValue maps an oracle-reported difficulty bucket to the stored
// [0, 1] level. Unknown buckets read as medium.
func DifficultyValue(bucket string) float64 {
	switch bucket {
	case "easy":
		return 0.3
	case "hard":
		return 0.9
	default:
		return 0.6
	}
}

// importanceBucket1to5 maps a candidate's 1..5 self-reported importance to
// the extraction output bucket.
func importanceBucket1to5(score int) string {
	if score >= 5 {
		return "core"
	}
	if score >= 4 {
		return "important"
	}
	return "advanced"
}
