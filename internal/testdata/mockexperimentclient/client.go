package mockexperimentclient

import (
	"context"

	"github.com/stretchr/testify/mock"

	"experiment-funnel-service/internal/amplitude"
	"experiment-funnel-service/internal/model"
)

type ExperimentClient struct {
	mock.Mock
}

var _ amplitude.ExperimentClient = &ExperimentClient{}

func (m *ExperimentClient) ListExperiments(ctx context.Context) ([]model.Experiment, error) {
	mockArgs := m.Called(ctx)
	if v := mockArgs.Get(0); v != nil {
		return v.([]model.Experiment), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}
