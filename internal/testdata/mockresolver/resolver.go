package mockresolver

import (
	"context"

	"github.com/stretchr/testify/mock"

	"experiment-funnel-service/internal/model"
)

type ExperimentResolver struct {
	mock.Mock
}

func (m *ExperimentResolver) List(ctx context.Context) ([]model.Experiment, error) {
	mockArgs := m.Called(ctx)
	if v := mockArgs.Get(0); v != nil {
		return v.([]model.Experiment), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}

func (m *ExperimentResolver) VariantNames(ctx context.Context, experimentID string) ([]string, error) {
	mockArgs := m.Called(ctx, experimentID)
	if v := mockArgs.Get(0); v != nil {
		return v.([]string), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}
