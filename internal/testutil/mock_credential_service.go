package testutil

import (
	"context"

	"github.com/haltia/conveyor/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) CreateCredential(
	ctx context.Context,
	name, description, sshPrivateKey string,
) (*store.Credential, error) {
	args := m.Called(ctx, name, description, sshPrivateKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Credential), args.Error(1)
}

func (m *MockCredentialService) GetCredentialByID(
	ctx context.Context,
	credentialID int64,
) (*store.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Credential), args.Error(1)
}

func (m *MockCredentialService) ListCredentials(ctx context.Context) ([]*store.Credential, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.Credential), args.Error(1)
}

func (m *MockCredentialService) UpdateCredential(
	ctx context.Context,
	credentialID int64,
	name, description string,
) error {
	args := m.Called(ctx, credentialID, name, description)
	return args.Error(0)
}

func (m *MockCredentialService) DeleteCredential(ctx context.Context, credentialID int64) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

func (m *MockCredentialService) PrivateKey(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
