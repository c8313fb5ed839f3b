package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/cadsense/internal/profile"
	"github.com/hrygo/cadsense/server/service/drawing"
	"github.com/hrygo/cadsense/store"
)

// DefaultMaxConcurrentRuns bounds planning runs in flight.
const DefaultMaxConcurrentRuns = 8

// APIV1Service serves the drawing workbench over HTTP.
type APIV1Service struct {
	Profile *profile.Profile
	Drawing *drawing.Service

	runSemaphore *semaphore.Weighted
}

func NewAPIV1Service(profile *profile.Profile, drawingService *drawing.Service, maxConcurrentRuns int64) *APIV1Service {
	if maxConcurrentRuns <= 0 {
		maxConcurrentRuns = DefaultMaxConcurrentRuns
	}
	return &APIV1Service{
		Profile:      profile,
		Drawing:      drawingService,
		runSemaphore: semaphore.NewWeighted(maxConcurrentRuns),
	}
}

// RegisterRoutes mounts the API on g, usually /api/v1.
func (s *APIV1Service) RegisterRoutes(g *echo.Group) {
	g.POST("/drawings/plan", s.PlanDrawing)
	g.GET("/drawings/runs", s.ListDrawingRuns)
}

type errorResponse struct {
	Message string `json:"message"`
}

// PlanDrawing handles POST /drawings/plan.
func (s *APIV1Service) PlanDrawing(c echo.Context) error {
	req := &drawing.RunRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "description is required"})
	}

	ctx := c.Request().Context()
	if err := s.runSemaphore.Acquire(ctx, 1); err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "request cancelled while waiting for a planning slot"})
	}
	defer s.runSemaphore.Release(1)

	result, err := s.Drawing.Run(ctx, req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, errorResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

type drawingRunResponse struct {
	UID         string `json:"uid"`
	Description string `json:"description"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	Sent        bool   `json:"sent"`
	CreatedTs   int64  `json:"createdTs"`
}

func convertDrawingRunFromStore(run *store.DrawingRun) *drawingRunResponse {
	return &drawingRunResponse{
		UID:         run.UID,
		Description: run.Description,
		Title:       run.Title,
		Source:      run.Source,
		Sent:        run.Sent,
		CreatedTs:   run.CreatedTs,
	}
}

// ListDrawingRuns handles GET /drawings/runs?limit=N.
func (s *APIV1Service) ListDrawingRuns(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "limit must be a non-negative integer"})
		}
		limit = n
	}

	runs, err := s.Drawing.History(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
	list := make([]*drawingRunResponse, 0, len(runs))
	for _, run := range runs {
		list = append(list, convertDrawingRunFromStore(run))
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": list})
}
