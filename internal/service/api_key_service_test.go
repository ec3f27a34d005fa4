package service

import (
	"context"
	"testing"

	"github.com/haltia/conveyor/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAPIKeyStore struct {
	mock.Mock
}

func (m *MockAPIKeyStore) CreateAPIKey(ctx context.Context, value string) (*store.APIKey, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.APIKey), nil
}

func (m *MockAPIKeyStore) ReadAPIKeyByID(ctx context.Context, id int64) (*store.APIKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.APIKey), nil
}

func (m *MockAPIKeyStore) ReadAPIKeyByValue(
	ctx context.Context,
	value string,
) (*store.APIKey, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.APIKey), nil
}

func (m *MockAPIKeyStore) DeleteAPIKey(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPIKeyStore) ListAPIKeys(ctx context.Context) ([]*store.APIKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.APIKey), nil
}

type MockUUIDGenerator struct {
	mock.Mock
}

func (m *MockUUIDGenerator) GenerateUUID() string {
	args := m.Called()
	return args.Get(0).(string)
}

func TestAPIKeyService_CreateAPIKey(t *testing.T) {
	t.Run("success - key created with generated value", func(t *testing.T) {
		// arrange
		mockStore := new(MockAPIKeyStore)
		mockGen := new(MockUUIDGenerator)
		mockGen.On("GenerateUUID").Return("generated-value")
		mockStore.On(
			"CreateAPIKey", context.Background(), "generated-value",
		).Return(&store.APIKey{ID: 1, Value: "generated-value"}, nil)
		apiKeyService := NewAPIKeyService(mockStore, mockGen)

		// act
		key, err := apiKeyService.CreateAPIKey(context.Background())

		// assert
		assert.NoError(t, err)
		assert.Equal(t, "generated-value", key.Value)
		mockStore.AssertExpectations(t)
	})
}

func TestAPIKeyService_GetAPIKeyByValue(t *testing.T) {
	t.Run("failure - unknown value", func(t *testing.T) {
		// arrange
		mockStore := new(MockAPIKeyStore)
		mockStore.On(
			"ReadAPIKeyByValue", context.Background(), "nope",
		).Return(nil, assert.AnError)
		apiKeyService := NewAPIKeyService(mockStore, NewUUIDGen())

		// act
		key, err := apiKeyService.GetAPIKeyByValue(context.Background(), "nope")

		// assert
		assert.Error(t, err)
		assert.Nil(t, key)
	})
}
