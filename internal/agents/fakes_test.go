package agents

import (
	"context"
	"errors"

	"github.com/abcfit/fitbanker-go/internal/providers"
	"github.com/abcfit/fitbanker-go/internal/store"
)

// scriptedProvider returns canned responses in order, then repeats the last.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *scriptedProvider) Chat(_ context.Context, _ providers.ChatRequest) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	i := p.calls - 1
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }

// fakeStore records calls and serves configured users.
type fakeStore struct {
	user          *store.User
	verifyErr     error
	sessionErr    error
	createErr     error
	profileErr    error
	verifyCalls   int
	sessionCalls  int
	deleteCalls   int
	createCalls   int
	profileCalls  int
	deletedTokens []string
}

func (f *fakeStore) VerifyCredentials(_ context.Context, _, _ string) (*store.User, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.user, nil
}

func (f *fakeStore) CreateSession(_ context.Context, _ int64) (string, error) {
	f.sessionCalls++
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return "session-token-1", nil
}

func (f *fakeStore) DeleteSession(_ context.Context, sessionID string) error {
	f.deleteCalls++
	f.deletedTokens = append(f.deletedTokens, sessionID)
	return errors.New("connection refused") // revocation failures must be swallowed
}

func (f *fakeStore) CreateAccount(_ context.Context, _ store.NewAccount) (int64, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	return 42, nil
}

func (f *fakeStore) UpsertProfile(_ context.Context, _ int64, _ store.Profile) error {
	f.profileCalls++
	return f.profileErr
}

func (f *fakeStore) UserFromSession(_ context.Context, _ string) (*store.SessionInfo, error) {
	return nil, nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) sideEffects() int {
	return f.verifyCalls + f.sessionCalls + f.deleteCalls + f.createCalls + f.profileCalls
}
