package service

import (
	"context"
	"testing"

	"storygame/internal/common"
	"storygame/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func desc(s string) *string { return &s }

func testLevels() []model.Level {
	return []model.Level{
		{ID: 11, LevelNumber: 1, Title: "The Pyramids of Giza", Slug: "the-pyramids-of-giza", Description: desc("first"), KeyCode: "HUMAN", RewardCredits: 25},
		{ID: 12, LevelNumber: 2, Title: "The Nile River", Slug: "the-nile-river", KeyCode: "NILE", RewardCredits: 25},
		{ID: 13, LevelNumber: 3, Title: "The Valley of Kings", Slug: "the-valley-of-kings", KeyCode: "PHARAOH", RewardCredits: 30},
		{ID: 14, LevelNumber: 4, Title: "The Temple of Karnak", Slug: "the-temple-of-karnak", KeyCode: "KARNAK", RewardCredits: 30},
		{ID: 15, LevelNumber: 5, Title: "The Final Chamber", Slug: "the-final-chamber", KeyCode: "CHRONOS", RewardCredits: 50},
	}
}

type progressFixture struct {
	svc      *ProgressService
	users    *fakeUserRepo
	levels   *fakeLevelRepo
	progress *fakeProgressRepo
	mock     sqlmock.Sqlmock
}

func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := newFakeUserRepo()
	require.NoError(t, users.Create(context.Background(), &model.User{Email: "a@x.com", Username: "alice"}))

	levels := &fakeLevelRepo{levels: testLevels()}
	progress := newFakeProgressRepo()

	return &progressFixture{
		svc:      NewProgressService(users, levels, progress, db, zap.NewNop()),
		users:    users,
		levels:   levels,
		progress: progress,
		mock:     mock,
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		" human ":    "HUMAN",
		"Human":      "HUMAN",
		"HUMAN":      "HUMAN",
		"\tkarnak\n": "KARNAK",
		"   ":        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeKey(in))
	}
}

func TestSubmitKey_EmptyKey(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.svc.SubmitKey(context.Background(), 1, 11, "   ")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestSubmitKey_UnknownUser(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.svc.SubmitKey(context.Background(), 99, 11, "human")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSubmitKey_UnknownLevel(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.svc.SubmitKey(context.Background(), 1, 99, "human")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSubmitKey_LevelWithoutKeyCode(t *testing.T) {
	f := newProgressFixture(t)
	f.levels.levels = append(f.levels.levels, model.Level{ID: 20, LevelNumber: 6, Title: "Broken"})

	_, err := f.svc.SubmitKey(context.Background(), 1, 20, "anything")
	require.ErrorIs(t, err, common.ErrDataIntegrity)
}

func TestSubmitKey_WrongKey_MutatesNothing(t *testing.T) {
	f := newProgressFixture(t)

	result, err := f.svc.SubmitKey(context.Background(), 1, 11, "wrong")
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.RewardCreditsAwarded)
	assert.Equal(t, 0, result.NewCredits)
	assert.Equal(t, 0, result.KeysCollected)
	assert.Equal(t, 0, result.CompletedLevels)
	assert.Nil(t, result.NextLevelID)

	assert.Empty(t, f.progress.completed, "wrong guess must not touch progress")
	assert.Equal(t, 0, f.users.users[1].Credits)
	require.NoError(t, f.mock.ExpectationsWereMet(), "wrong guess must not open a transaction")
}

func TestSubmitKey_FirstCorrectSubmission(t *testing.T) {
	f := newProgressFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.SubmitKey(context.Background(), 1, 11, " human ")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, 25, result.RewardCreditsAwarded)
	assert.Equal(t, 25, result.NewCredits)
	assert.Equal(t, 1, result.KeysCollected)
	assert.Equal(t, 1, result.CompletedLevels)
	require.NotNil(t, result.NextLevelID)
	assert.Equal(t, int64(12), *result.NextLevelID)

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitKey_RepeatSubmissionAwardsNothing(t *testing.T) {
	f := newProgressFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	first, err := f.svc.SubmitKey(context.Background(), 1, 11, "human")
	require.NoError(t, err)
	require.Equal(t, 25, first.NewCredits)

	second, err := f.svc.SubmitKey(context.Background(), 1, 11, "HUMAN")
	require.NoError(t, err)

	assert.True(t, second.Correct)
	assert.Equal(t, 0, second.RewardCreditsAwarded)
	assert.Equal(t, 25, second.NewCredits, "credits must not change on repeat submission")
	assert.Equal(t, 1, second.CompletedLevels)
}

func TestSubmitKey_LastLevelHasNoNext(t *testing.T) {
	f := newProgressFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	result, err := f.svc.SubmitKey(context.Background(), 1, 15, "chronos")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, 50, result.RewardCreditsAwarded)
	assert.Nil(t, result.NextLevelID)
}

func TestCompleteLevel_UnknownLevel(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.svc.CompleteLevel(context.Background(), 1, 99)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCompleteLevel_IdempotentAndRewardFree(t *testing.T) {
	f := newProgressFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	first, err := f.svc.CompleteLevel(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.UserID)
	assert.Equal(t, 1, first.CompletedLevels)
	assert.Equal(t, 1, first.KeysCollected)

	second, err := f.svc.CompleteLevel(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, 1, second.CompletedLevels)

	assert.Equal(t, 0, f.users.users[1].Credits, "completion marker never touches credits")
}

func TestGetUserProgress_NoCompletions(t *testing.T) {
	f := newProgressFixture(t)
	f.progress.listRows = []model.LevelCompletion{
		{LevelID: 11, LevelNumber: 1, Title: "The Pyramids of Giza"},
		{LevelID: 12, LevelNumber: 2, Title: "The Nile River"},
		{LevelID: 13, LevelNumber: 3, Title: "The Valley of Kings"},
		{LevelID: 14, LevelNumber: 4, Title: "The Temple of Karnak"},
		{LevelID: 15, LevelNumber: 5, Title: "The Final Chamber"},
	}

	result, err := f.svc.GetUserProgress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CompletedLevels)
	assert.Equal(t, 0, result.KeysCollected)
	assert.Equal(t, 1, result.NextUnlockedLevelNumber, "level 1 is always unlocked")
	assert.Len(t, result.Levels, 5)
}

func TestGetUserProgress_PartialCompletion(t *testing.T) {
	f := newProgressFixture(t)
	f.progress.listRows = []model.LevelCompletion{
		{LevelID: 11, LevelNumber: 1, Title: "The Pyramids of Giza", Completed: true},
		{LevelID: 12, LevelNumber: 2, Title: "The Nile River", Completed: true},
		{LevelID: 13, LevelNumber: 3, Title: "The Valley of Kings"},
		{LevelID: 14, LevelNumber: 4, Title: "The Temple of Karnak"},
		{LevelID: 15, LevelNumber: 5, Title: "The Final Chamber"},
	}

	result, err := f.svc.GetUserProgress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CompletedLevels)
	assert.Equal(t, 3, result.NextUnlockedLevelNumber)
}

func TestGetUserProgress_AllCompletedClampsToLast(t *testing.T) {
	f := newProgressFixture(t)
	f.progress.listRows = []model.LevelCompletion{
		{LevelID: 11, LevelNumber: 1, Title: "The Pyramids of Giza", Completed: true},
		{LevelID: 12, LevelNumber: 2, Title: "The Nile River", Completed: true},
		{LevelID: 13, LevelNumber: 3, Title: "The Valley of Kings", Completed: true},
		{LevelID: 14, LevelNumber: 4, Title: "The Temple of Karnak", Completed: true},
		{LevelID: 15, LevelNumber: 5, Title: "The Final Chamber", Completed: true},
	}

	result, err := f.svc.GetUserProgress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 5, result.CompletedLevels)
	assert.Equal(t, 5, result.NextUnlockedLevelNumber, "never points past the last level")
}
