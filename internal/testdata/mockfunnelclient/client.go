package mockfunnelclient

import (
	"context"

	"github.com/stretchr/testify/mock"

	"experiment-funnel-service/internal/amplitude"
)

type FunnelClient struct {
	mock.Mock
}

var _ amplitude.FunnelClient = &FunnelClient{}

func (m *FunnelClient) FetchFunnel(ctx context.Context, req amplitude.FunnelRequest) (*amplitude.FunnelResponse, error) {
	mockArgs := m.Called(ctx, req)
	if v := mockArgs.Get(0); v != nil {
		return v.(*amplitude.FunnelResponse), mockArgs.Error(1)
	}
	return nil, mockArgs.Error(1)
}
