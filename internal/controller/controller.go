package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"experiment-funnel-service/internal/amplitude"
	"experiment-funnel-service/internal/model"
	"experiment-funnel-service/internal/normalize"
	"experiment-funnel-service/internal/query"
	"experiment-funnel-service/internal/service"
)

// AnalysisController exposes HTTP handlers for the analysis endpoints.
type AnalysisController interface {
	GetCatalog(c *fiber.Ctx) error
	ListExperiments(c *fiber.Ctx) error
	GetVariants(c *fiber.Ctx) error
	RunAnalysis(c *fiber.Ctx) error
	RunBreakdown(c *fiber.Ctx) error
	ExportAnalysis(c *fiber.Ctx) error
}

type analysisController struct {
	analysisService service.AnalysisService
	resolver        service.ExperimentResolver
	exporter        Exporter
	validate        *validator.Validate
}

// Exporter renders result rows as a downloadable workbook.
type Exporter interface {
	Daily(rows []model.DailyRow) ([]byte, error)
	Cumulative(rows []model.CumulativeRow) ([]byte, error)
}

// NewAnalysisController builds an AnalysisController.
func NewAnalysisController(svc service.AnalysisService, resolver service.ExperimentResolver, exporter Exporter) AnalysisController {
	return &analysisController{
		analysisService: svc,
		resolver:        resolver,
		exporter:        exporter,
		validate:        validator.New(),
	}
}

// AnalysisRequest is the body of POST /analysis and POST /analysis/export.
type AnalysisRequest struct {
	Metric           string            `json:"metric" validate:"required"`
	Mode             string            `json:"mode" validate:"omitempty,oneof=daily cumulative"`
	ExperimentID     string            `json:"experiment_id" validate:"required"`
	StartDate        string            `json:"start_date" validate:"required"`
	EndDate          string            `json:"end_date" validate:"required"`
	Dimensions       map[string]string `json:"dimensions"`
	ConversionWindow int               `json:"conversion_window" validate:"omitempty,min=1"`
}

// BreakdownHTTPRequest is the body of POST /analysis/breakdown.
type BreakdownHTTPRequest struct {
	Metrics          []string          `json:"metrics" validate:"required,min=1"`
	Dimension        string            `json:"dimension" validate:"required"`
	Values           []string          `json:"values"`
	ExperimentID     string            `json:"experiment_id" validate:"required"`
	StartDate        string            `json:"start_date" validate:"required"`
	EndDate          string            `json:"end_date" validate:"required"`
	Dimensions       map[string]string `json:"dimensions"`
	ConversionWindow int               `json:"conversion_window" validate:"omitempty,min=1"`
}

// GetCatalog lists every metric with its human-readable filter summary.
func (h *analysisController) GetCatalog(c *fiber.Ctx) error {
	info, err := h.analysisService.Catalog()
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"metrics": info})
}

// ListExperiments returns the experiments visible to the management key.
func (h *analysisController) ListExperiments(c *fiber.Ctx) error {
	experiments, err := h.resolver.List(c.Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"experiments": experiments})
}

// GetVariants resolves variant names for one experiment.
func (h *analysisController) GetVariants(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "experiment id is required")
	}
	variants, err := h.resolver.VariantNames(c.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"experiment_id": id, "variants": variants})
}

// RunAnalysis executes a daily or cumulative funnel analysis.
func (h *analysisController) RunAnalysis(c *fiber.Ctx) error {
	req, sel, err := h.parseAnalysisRequest(c)
	if err != nil {
		return err
	}

	if req.Mode == "cumulative" {
		rows, svcErr := h.analysisService.RunCumulative(c.Context(), req.Metric, sel)
		if svcErr != nil {
			return mapError(svcErr)
		}
		return c.JSON(fiber.Map{"metric": req.Metric, "mode": req.Mode, "rows": rows})
	}

	rows, svcErr := h.analysisService.RunDaily(c.Context(), req.Metric, sel)
	if svcErr != nil {
		return mapError(svcErr)
	}
	return c.JSON(fiber.Map{"metric": req.Metric, "mode": "daily", "rows": rows})
}

// RunBreakdown executes the segmentation breakdown grid.
func (h *analysisController) RunBreakdown(c *fiber.Ctx) error {
	var req BreakdownHTTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sel, err := buildSelection(req.ExperimentID, req.StartDate, req.EndDate, req.Dimensions, req.ConversionWindow)
	if err != nil {
		return err
	}

	report, svcErr := h.analysisService.Breakdown(c.Context(), service.BreakdownRequest{
		Metrics:   req.Metrics,
		Dimension: req.Dimension,
		Values:    req.Values,
		Selection: sel,
	})
	if svcErr != nil {
		return mapError(svcErr)
	}
	return c.JSON(report)
}

// ExportAnalysis runs an analysis and returns it as an xlsx attachment.
func (h *analysisController) ExportAnalysis(c *fiber.Ctx) error {
	req, sel, err := h.parseAnalysisRequest(c)
	if err != nil {
		return err
	}

	var payload []byte
	if req.Mode == "cumulative" {
		rows, svcErr := h.analysisService.RunCumulative(c.Context(), req.Metric, sel)
		if svcErr != nil {
			return mapError(svcErr)
		}
		payload, err = h.exporter.Cumulative(rows)
	} else {
		rows, svcErr := h.analysisService.RunDaily(c.Context(), req.Metric, sel)
		if svcErr != nil {
			return mapError(svcErr)
		}
		payload, err = h.exporter.Daily(rows)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render workbook")
	}

	filename := fmt.Sprintf("%s_%s.xlsx", req.Metric, req.ExperimentID)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(payload)
}

func (h *analysisController) parseAnalysisRequest(c *fiber.Ctx) (AnalysisRequest, model.Selection, error) {
	var req AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return req, model.Selection{}, fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return req, model.Selection{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sel, err := buildSelection(req.ExperimentID, req.StartDate, req.EndDate, req.Dimensions, req.ConversionWindow)
	if err != nil {
		return req, model.Selection{}, err
	}
	return req, sel, nil
}

func buildSelection(experimentID, start, end string, dims map[string]string, window int) (model.Selection, error) {
	startAt, err := parseDate(start)
	if err != nil {
		return model.Selection{}, fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
	}
	endAt, err := parseDate(end)
	if err != nil {
		return model.Selection{}, fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
	}

	return model.Selection{
		ExperimentID:     experimentID,
		StartDate:        startAt,
		EndDate:          endAt,
		Device:           dimValue(dims, "device"),
		Culture:          dimValue(dims, "culture"),
		FlowType:         dimValue(dims, "flow_type"),
		TripType:         dimValue(dims, "trip_type"),
		BundleProfile:    dimValue(dims, "bundle_profile"),
		TravelGroup:      dimValue(dims, "travel_group"),
		PaxAdultCount:    dimValue(dims, "pax_adult_count"),
		ConversionWindow: window,
	}, nil
}

func dimValue(dims map[string]string, key string) string {
	if dims == nil {
		return model.All
	}
	if v, ok := dims[key]; ok && v != "" {
		return v
	}
	return model.All
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func mapError(err error) error {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var configErr *query.ConfigError
	if errors.As(err, &configErr) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var apiErr *amplitude.APIError
	if errors.As(err, &apiErr) {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	var respErr *normalize.ResponseError
	if errors.As(err, &respErr) {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "analysis failed")
}
