package service

import (
	"context"
	"database/sql"

	"storygame/internal/common"
	"storygame/internal/domain/model"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users     map[int64]*model.User
	createErr error
	nextID    int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByCredentials(_ context.Context, email, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Username == username {
			dup := *u
			return &dup, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	dup := *u
	return &dup, nil
}

func (f *fakeUserRepo) AddCredits(_ context.Context, _ *sql.Tx, userID int64, amount int) (int, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, common.ErrNotFound
	}
	u.Credits += amount
	return u.Credits, nil
}

type fakeLevelRepo struct {
	levels []model.Level
}

func (f *fakeLevelRepo) List(_ context.Context) ([]model.Level, error) {
	return f.levels, nil
}

func (f *fakeLevelRepo) FindByID(_ context.Context, id int64) (*model.Level, error) {
	for i := range f.levels {
		if f.levels[i].ID == id {
			dup := f.levels[i]
			return &dup, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeLevelRepo) FindByNumber(_ context.Context, levelNumber int) (*model.Level, error) {
	for i := range f.levels {
		if f.levels[i].LevelNumber == levelNumber {
			dup := f.levels[i]
			return &dup, nil
		}
	}
	return nil, common.ErrNotFound
}

type progressKey struct {
	userID  int64
	levelID int64
}

type fakeProgressRepo struct {
	completed map[progressKey]bool
	listRows  []model.LevelCompletion
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{completed: map[progressKey]bool{}}
}

func (f *fakeProgressRepo) MarkCompleted(_ context.Context, _ *sql.Tx, userID, levelID int64) (bool, error) {
	key := progressKey{userID, levelID}
	already := f.completed[key]
	f.completed[key] = true
	return already, nil
}

func (f *fakeProgressRepo) CountCompleted(_ context.Context, _ *sql.Tx, userID int64) (int, error) {
	count := 0
	for key, done := range f.completed {
		if key.userID == userID && done {
			count++
		}
	}
	return count, nil
}

func (f *fakeProgressRepo) ListByUser(_ context.Context, _ int64) ([]model.LevelCompletion, error) {
	return f.listRows, nil
}

type fakeDialogueRepo struct {
	linesByLevel map[int64][]model.DialogueLine
}

func (f *fakeDialogueRepo) ListByLevel(_ context.Context, levelID int64) ([]model.DialogueLine, error) {
	return f.linesByLevel[levelID], nil
}
