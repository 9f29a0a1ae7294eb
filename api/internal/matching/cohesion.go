package matching

// Answers use a four-point scale: -2 strong no, -1 no, 1 yes, 2 strong yes.
// Zero is never stored; a skipped question simply has no answer row.

// AnswerSet holds one answer value per question id. Later answers overwrite
// earlier ones at write time, so a plain map is enough.
type AnswerSet map[int64]int

// Uncategorized is the bucket for shared questions with no category label.
const Uncategorized = "uncategorized"

// Per-question contributions to the cohesion score. All weights are exact
// binary fractions, so map iteration order cannot perturb the sum.
const (
	weightExact     = 1.0
	weightNear      = 0.5
	weightDivergent = -0.5
)

// Cohesion is the result of comparing two users' answers over the questions
// both of them answered.
type Cohesion struct {
	// Score is the normalized cohesion in [-0.5, 1.0]. Zero when the users
	// share no questions.
	Score       float64
	SharedCount int

	// Bucket sizes; they sum to SharedCount.
	Agreement     int
	Complementary int
	Divergent     int

	// Invalid counts shared pairs excluded because either value was outside
	// the scale. They are not part of SharedCount.
	Invalid int

	CategoryScores map[string]float64
	CategoryCounts map[string]int
}

// ValidValue reports whether v is on the answer scale.
func ValidValue(v int) bool {
	switch v {
	case -2, -1, 1, 2:
		return true
	}
	return false
}

// ComputeCohesion scores two users' answer sets against each other.
// categories maps question ids to their label; missing entries fall into the
// Uncategorized bucket. The computation is pure and symmetric in a and b.
//
// Classification per shared question:
//   - exact agreement (same value): full weight
//   - near agreement (values one step apart, e.g. 2 and 1): half weight
//   - complementary (opposite sign, equal magnitude, e.g. 2 and -2): a
//     separate bucket, neutral for the score
//   - divergent (opposite sign, unequal magnitude, e.g. 2 and -1): negative
//     weight
//
// The score is the mean contribution over shared questions, so it does not
// depend on how many questions were shared.
func ComputeCohesion(a, b AnswerSet, categories map[int64]string) Cohesion {
	c := Cohesion{
		CategoryScores: map[string]float64{},
		CategoryCounts: map[string]int{},
	}
	catSums := map[string]float64{}
	var sum float64

	for q, va := range a {
		vb, ok := b[q]
		if !ok {
			continue
		}
		if !ValidValue(va) || !ValidValue(vb) {
			c.Invalid++
			continue
		}

		var w float64
		switch {
		case va == vb:
			w = weightExact
			c.Agreement++
		case absInt(va-vb) == 1:
			w = weightNear
			c.Agreement++
		case absInt(va) == absInt(vb):
			// va != vb with equal magnitude means opposite signs.
			c.Complementary++
		default:
			w = weightDivergent
			c.Divergent++
		}

		c.SharedCount++
		sum += w

		cat := categories[q]
		if cat == "" {
			cat = Uncategorized
		}
		catSums[cat] += w
		c.CategoryCounts[cat]++
	}

	if c.SharedCount == 0 {
		return c
	}

	c.Score = sum / float64(c.SharedCount)
	for cat, s := range catSums {
		c.CategoryScores[cat] = s / float64(c.CategoryCounts[cat])
	}
	return c
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
