package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// DefaultMinShared is the minimum number of commonly answered questions a
// candidate needs before their score means anything. A score over one or two
// questions is noise.
const DefaultMinShared = 3

type AnswerStore interface {
	UserAnswersForGroup(ctx context.Context, userID, groupID int64) (AnswerSet, error)
}

type QuestionStore interface {
	QuestionCategories(ctx context.Context, ids []int64) (map[int64]string, error)
}

type MemberStore interface {
	ActiveMemberIDs(ctx context.Context, groupID, excludingUserID int64) ([]int64, error)
}

// Result is one ranked match candidate.
type Result struct {
	UserID int64
	Cohesion
}

// Finder ranks the members of a group by cohesion with a given user.
type Finder struct {
	answers   AnswerStore
	questions QuestionStore
	members   MemberStore
	minShared int
	log       zerolog.Logger
}

func NewFinder(answers AnswerStore, questions QuestionStore, members MemberStore, minShared int, log zerolog.Logger) *Finder {
	if minShared <= 0 {
		minShared = DefaultMinShared
	}
	return &Finder{
		answers:   answers,
		questions: questions,
		members:   members,
		minShared: minShared,
		log:       log,
	}
}

// MinShared returns the shared-question threshold the finder applies.
func (f *Finder) MinShared() int { return f.minShared }

// FindMatches scores every other active member of the group against the user
// and returns the survivors ordered by score (highest first; ties go to the
// candidate with more shared questions, then to store enumeration order).
//
// A candidate whose answers cannot be fetched is logged and skipped; one bad
// candidate never aborts the ranking. Only a failure to fetch the user's own
// answers is returned as an error.
func (f *Finder) FindMatches(ctx context.Context, userID, groupID int64) ([]Result, error) {
	own, err := f.answers.UserAnswersForGroup(ctx, userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("fetch own answers: %w", err)
	}
	if len(own) == 0 {
		// Nobody can reach the shared-question threshold.
		return nil, nil
	}

	qids := make([]int64, 0, len(own))
	for q := range own {
		qids = append(qids, q)
	}
	categories, err := f.questions.QuestionCategories(ctx, qids)
	if err != nil {
		return nil, fmt.Errorf("fetch question categories: %w", err)
	}

	candidates, err := f.members.ActiveMemberIDs(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch group members: %w", err)
	}

	results := make([]Result, 0, len(candidates))
	for _, cid := range candidates {
		theirs, err := f.answers.UserAnswersForGroup(ctx, cid, groupID)
		if err != nil {
			f.log.Warn().Err(err).
				Int64("candidate", cid).
				Int64("group", groupID).
				Msg("skipping candidate: answers unavailable")
			continue
		}

		c := ComputeCohesion(own, theirs, categories)
		if c.Invalid > 0 {
			f.log.Warn().
				Int("invalid", c.Invalid).
				Int64("candidate", cid).
				Int64("group", groupID).
				Msg("excluded answer pairs with out-of-scale values")
		}
		if c.SharedCount < f.minShared {
			continue
		}
		results = append(results, Result{UserID: cid, Cohesion: c})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].SharedCount > results[j].SharedCount
	})
	return results, nil
}
