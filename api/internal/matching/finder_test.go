package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	answers   map[int64]AnswerSet
	answerErr map[int64]error
	cats      map[int64]string
	members   []int64
	memberErr error

	memberCalls int
}

func (f *fakeStore) UserAnswersForGroup(_ context.Context, userID, _ int64) (AnswerSet, error) {
	if err := f.answerErr[userID]; err != nil {
		return nil, err
	}
	return f.answers[userID], nil
}

func (f *fakeStore) QuestionCategories(_ context.Context, _ []int64) (map[int64]string, error) {
	return f.cats, nil
}

func (f *fakeStore) ActiveMemberIDs(_ context.Context, _, _ int64) ([]int64, error) {
	f.memberCalls++
	return f.members, f.memberErr
}

func newTestFinder(fs *fakeStore, minShared int) *Finder {
	return NewFinder(fs, fs, fs, minShared, zerolog.Nop())
}

func TestFindMatchesRanking(t *testing.T) {
	fs := &fakeStore{
		answers: map[int64]AnswerSet{
			1:  {1: 2, 2: 2, 3: 2, 4: 2},
			10: {1: 2, 2: 2, 3: 2, 4: 2},  // all exact: 1.0
			11: {1: 2, 2: 1, 3: -1, 4: 2}, // exact, near, divergent, exact: 0.5
			12: {1: 2, 2: 2},              // only two shared: below threshold
		},
		members: []int64{10, 11, 12},
	}

	results, err := newTestFinder(fs, 0).FindMatches(context.Background(), 1, 77)

	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, int64(10), results[0].UserID)
	require.Equal(t, 1.0, results[0].Score)
	require.Equal(t, int64(11), results[1].UserID)
	require.Equal(t, 0.5, results[1].Score)
}

func TestFindMatchesThreshold(t *testing.T) {
	fs := &fakeStore{
		answers: map[int64]AnswerSet{
			1:  {1: 2, 2: 2, 3: 2},
			10: {1: 2, 2: 2},       // 2 shared
			11: {1: 2, 2: 2, 3: 2}, // 3 shared
		},
		members: []int64{10, 11},
	}

	results, err := newTestFinder(fs, 3).FindMatches(context.Background(), 1, 77)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(11), results[0].UserID)

	// With a looser threshold the same candidate makes the cut.
	results, err = newTestFinder(fs, 2).FindMatches(context.Background(), 1, 77)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestFindMatchesTieBreakBySharedCount(t *testing.T) {
	fs := &fakeStore{
		answers: map[int64]AnswerSet{
			1:  {1: 2, 2: 2, 3: 2, 4: 2},
			10: {1: 2, 2: 2, 3: 2},       // score 1.0, 3 shared
			11: {1: 2, 2: 2, 3: 2, 4: 2}, // score 1.0, 4 shared
		},
		members: []int64{10, 11},
	}

	results, err := newTestFinder(fs, 3).FindMatches(context.Background(), 1, 77)

	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, int64(11), results[0].UserID)
	require.Equal(t, int64(10), results[1].UserID)
}

func TestFindMatchesStableOrderOnFullTie(t *testing.T) {
	shared := AnswerSet{1: 2, 2: 2, 3: 2}
	fs := &fakeStore{
		answers: map[int64]AnswerSet{
			1:  shared,
			10: shared,
			11: shared,
			12: shared,
		},
		members: []int64{12, 10, 11},
	}

	results, err := newTestFinder(fs, 3).FindMatches(context.Background(), 1, 77)

	require.NoError(t, err)
	require.Len(t, results, 3)
	// Identical score and shared count: candidate enumeration order wins.
	require.Equal(t, int64(12), results[0].UserID)
	require.Equal(t, int64(10), results[1].UserID)
	require.Equal(t, int64(11), results[2].UserID)
}

func TestFindMatchesDeterministic(t *testing.T) {
	fs := &fakeStore{
		answers: map[int64]AnswerSet{
			1:  {1: 2, 2: -1, 3: 1, 4: -2},
			10: {1: 2, 2: 1, 3: -2, 4: -2},
			11: {1: 1, 2: -1, 3: 1, 4: 2},
			12: {1: -2, 2: -2, 3: 1, 4: -1},
		},
		cats:    map[int64]string{1: "values", 2: "lifestyle"},
		members: []int64{10, 11, 12},
	}
	f := newTestFinder(fs, 3)

	first, err := f.FindMatches(context.Background(), 1, 77)
	require.NoError(t, err)
	second, err := f.FindMatches(context.Background(), 1, 77)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestFindMatchesSkipsFailingCandidate(t *testing.T) {
	fs := &fakeStore{
		answers: map[int64]AnswerSet{
			1:  {1: 2, 2: 2, 3: 2},
			11: {1: 2, 2: 2, 3: 2},
		},
		answerErr: map[int64]error{10: errors.New("connection reset")},
		members:   []int64{10, 11},
	}

	results, err := newTestFinder(fs, 3).FindMatches(context.Background(), 1, 77)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, int64(11), results[0].UserID)
}

func TestFindMatchesTargetFetchErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	fs := &fakeStore{
		answerErr: map[int64]error{1: storeErr},
		members:   []int64{10},
	}

	_, err := newTestFinder(fs, 3).FindMatches(context.Background(), 1, 77)

	require.ErrorIs(t, err, storeErr)
}

func TestFindMatchesNoOwnAnswers(t *testing.T) {
	fs := &fakeStore{
		answers: map[int64]AnswerSet{10: {1: 2}},
		members: []int64{10},
	}

	results, err := newTestFinder(fs, 3).FindMatches(context.Background(), 1, 77)

	require.NoError(t, err)
	require.Empty(t, results)
	// Without own answers there is nothing to score; candidates are never
	// enumerated.
	require.Zero(t, fs.memberCalls)
}

func TestFindMatchesCategoriesInResults(t *testing.T) {
	fs := &fakeStore{
		answers: map[int64]AnswerSet{
			1:  {1: 2, 2: 2, 3: 2},
			10: {1: 2, 2: 2, 3: -1},
		},
		cats:    map[int64]string{1: "values", 2: "values"},
		members: []int64{10},
	}

	results, err := newTestFinder(fs, 3).FindMatches(context.Background(), 1, 77)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, map[string]int{"values": 2, Uncategorized: 1}, results[0].CategoryCounts)
	require.Equal(t, 1.0, results[0].CategoryScores["values"])
}
