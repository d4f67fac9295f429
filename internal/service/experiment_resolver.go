package service

import (
	"context"
	"strings"

	"experiment-funnel-service/internal/amplitude"
	"experiment-funnel-service/internal/model"
)

// DefaultVariants is the fallback when an experiment is not found in the
// management API.
var DefaultVariants = []string{"control", "treatment"}

// ExperimentResolver lists experiments and resolves variant names for use as
// cohort-segment selectors.
type ExperimentResolver interface {
	List(ctx context.Context) ([]model.Experiment, error)
	VariantNames(ctx context.Context, experimentID string) ([]string, error)
}

type experimentResolver struct {
	client amplitude.ExperimentClient
}

// NewExperimentResolver builds an ExperimentResolver.
func NewExperimentResolver(client amplitude.ExperimentClient) ExperimentResolver {
	return &experimentResolver{client: client}
}

func (r *experimentResolver) List(ctx context.Context) ([]model.Experiment, error) {
	return r.client.ListExperiments(ctx)
}

// VariantNames returns the experiment's variant names in declaration order.
// The segmentation system does not accept raw spaces in segment values, so
// spaces become hyphens. Unknown experiments fall back to control/treatment.
func (r *experimentResolver) VariantNames(ctx context.Context, experimentID string) ([]string, error) {
	experiments, err := r.client.ListExperiments(ctx)
	if err != nil {
		return nil, err
	}

	for _, exp := range experiments {
		if exp.Key != experimentID {
			continue
		}
		names := make([]string, 0, len(exp.Variants))
		for _, variant := range exp.Variants {
			name := variant.Name
			if name == "" {
				name = variant.Key
			}
			names = append(names, strings.ReplaceAll(name, " ", "-"))
		}
		if len(names) == 0 {
			break
		}
		return names, nil
	}
	return append([]string(nil), DefaultVariants...), nil
}
