package tax

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/taxbridge/backend/internal/domain/tax"
)

// MockOrderFieldReader is a mock implementation of tax.OrderFieldReader
type MockOrderFieldReader struct {
	mock.Mock
}

func (m *MockOrderFieldReader) GetValue(ctx context.Context, category, name, orderID string) (*string, error) {
	args := m.Called(ctx, category, name, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

// MockRatingClient is a mock implementation of tax.RatingClient
type MockRatingClient struct {
	mock.Mock
}

func (m *MockRatingClient) Rate(ctx context.Context, req tax.RatingRequest) (tax.RatingResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(tax.RatingResult), args.Error(1)
}

// MockSettingsRepository is a mock implementation of tax.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Load(ctx context.Context, module string) (tax.ModuleSettings, error) {
	args := m.Called(ctx, module)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tax.ModuleSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, module string, settings tax.ModuleSettings) error {
	args := m.Called(ctx, module, settings)
	return args.Error(0)
}

// mapFieldReader serves order fields from a map; missing entries are absent.
type mapFieldReader struct {
	mu     sync.Mutex
	values map[string]string
	reads  []string
}

func (r *mapFieldReader) GetValue(_ context.Context, category, name, _ string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads = append(r.reads, category+"/"+name)
	v, ok := r.values[name]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Record(_ context.Context, event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func strPtr(s string) *string { return &s }
