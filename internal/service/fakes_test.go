package service

import (
	"context"
	"time"

	pkgcrypto "github.com/asmirnov/cardvault/internal/crypto"
	"github.com/asmirnov/cardvault/internal/errs"
	"github.com/asmirnov/cardvault/internal/limiter"
	"github.com/asmirnov/cardvault/internal/model"
	"github.com/asmirnov/cardvault/internal/repository"
)

type fakeAccounts struct {
	byLogin map[string]*model.Account
	nextID  int64

	createErr error
	getErr    error
	updateErr error

	deleteCalls  int
	updatedLogin string
}

var _ repository.AccountRepository = (*fakeAccounts)(nil)

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byLogin: map[string]*model.Account{}, nextID: 1}
}

func (f *fakeAccounts) add(login, password string) *model.Account {
	digest, _ := pkgcrypto.HashPassword(password)
	a := &model.Account{ID: f.nextID, Login: login, PasswordDigest: digest}
	f.nextID++
	f.byLogin[login] = a
	return a
}

func (f *fakeAccounts) Create(_ context.Context, login, digest string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, exists := f.byLogin[login]; exists {
		return 0, errs.ErrAlreadyExists
	}
	a := &model.Account{ID: f.nextID, Login: login, PasswordDigest: digest}
	f.nextID++
	f.byLogin[login] = a
	return a.ID, nil
}

func (f *fakeAccounts) GetByLogin(_ context.Context, login string) (*model.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byLogin[login]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (f *fakeAccounts) Delete(_ context.Context, id int64) error {
	f.deleteCalls++
	for login, a := range f.byLogin {
		if a.ID == id {
			delete(f.byLogin, login)
		}
	}
	return nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, login, digest string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedLogin = login
	if a, ok := f.byLogin[login]; ok {
		a.PasswordDigest = digest
	}
	return nil
}

type fakeCards struct {
	byID   map[int64]*model.Card
	nextID int64

	createErr error
	listErr   error

	fullLogin  string
	fullDigest string
	fullCalls  int
}

var _ repository.CardRepository = (*fakeCards)(nil)

func newFakeCards() *fakeCards {
	return &fakeCards{byID: map[int64]*model.Card{}, nextID: 1}
}

func (f *fakeCards) List(_ context.Context, accountID int64, cardID *int64) ([]model.Card, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Card{}
	for _, c := range f.byID {
		if c.AccountID != accountID {
			continue
		}
		if cardID != nil && c.ID != *cardID {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCards) Create(_ context.Context, accountID int64, last4digit, code, cardType string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	c := &model.Card{ID: f.nextID, AccountID: accountID, Last4Digit: last4digit, Code: code, Type: cardType}
	f.nextID++
	f.byID[c.ID] = c
	return c.ID, nil
}

func (f *fakeCards) apply(id int64, patch model.CardPatch) {
	c, ok := f.byID[id]
	if !ok {
		return
	}
	if patch.AccountID != nil {
		c.AccountID = *patch.AccountID
	}
	if patch.Last4Digit != nil {
		c.Last4Digit = *patch.Last4Digit
	}
	if patch.Code != nil {
		c.Code = *patch.Code
	}
	if patch.Type != nil {
		c.Type = *patch.Type
	}
}

func (f *fakeCards) Update(_ context.Context, id int64, patch model.CardPatch) error {
	if patch.IsEmpty() {
		return errs.ErrEmptyUpdate
	}
	f.apply(id, patch)
	return nil
}

func (f *fakeCards) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeCards) UpdateFull(_ context.Context, login, digest string, cardID int64, patch model.CardPatch) error {
	f.fullCalls++
	f.fullLogin = login
	f.fullDigest = digest
	f.apply(cardID, patch)
	return nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successErr error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}
