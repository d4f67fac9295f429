package mockservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"experiment-funnel-service/internal/catalog"
	"experiment-funnel-service/internal/model"
	"experiment-funnel-service/internal/service"
)

type AnalysisService struct {
	mock.Mock
}

var _ service.AnalysisService = &AnalysisService{}

func (m *AnalysisService) Catalog() ([]catalog.MetricInfo, error) {
	mockArgs := m.Called()
	if v := mockArgs.Get(0); v != nil {
		return v.([]catalog.MetricInfo), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}

func (m *AnalysisService) RunDaily(ctx context.Context, metric string, sel model.Selection) ([]model.DailyRow, error) {
	mockArgs := m.Called(ctx, metric, sel)
	if v := mockArgs.Get(0); v != nil {
		return v.([]model.DailyRow), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}

func (m *AnalysisService) RunCumulative(ctx context.Context, metric string, sel model.Selection) ([]model.CumulativeRow, error) {
	mockArgs := m.Called(ctx, metric, sel)
	if v := mockArgs.Get(0); v != nil {
		return v.([]model.CumulativeRow), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}

func (m *AnalysisService) Breakdown(ctx context.Context, req service.BreakdownRequest) (*service.BreakdownReport, error) {
	mockArgs := m.Called(ctx, req)
	if v := mockArgs.Get(0); v != nil {
		return v.(*service.BreakdownReport), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}
