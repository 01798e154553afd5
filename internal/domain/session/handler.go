package session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pedsim/pedsim/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions", h.ListSessions)
	api.GET("/sessions/:id", h.GetSession)
	api.POST("/sessions/:id/tick", h.Tick)
	api.POST("/sessions/:id/interventions", h.ApplyIntervention)
	api.POST("/sessions/:id/reset", h.Reset)
	api.POST("/sessions/:id/score", h.Score)
	api.GET("/sessions/:id/interactions", h.ListInteractions)

	api.GET("/cases", h.ListCases)
	api.GET("/cases/:id", h.GetCase)
}

type createSessionRequest struct {
	CaseID string `json:"case_id"`
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CaseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "case_id is required")
	}
	sess, err := h.svc.CreateSession(c.Request().Context(), req.CaseID)
	if err != nil {
		if errors.Is(err, ErrUnknownCase) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sess, err := h.svc.GetSession(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) ListSessions(c echo.Context) error {
	pg := pagination.FromContext(c)
	sessions, total, err := h.svc.ListSessions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := pagination.NewResponse(sessions, total, pg.Limit, pg.Offset)
	resp.Links = pg.Links(c.Request().URL.Path, total)
	return c.JSON(http.StatusOK, resp)
}

type tickRequest struct {
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

func (h *Handler) Tick(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req tickRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	out, err := h.svc.Tick(c.Request().Context(), id, req.ElapsedSeconds)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, out)
}

type interventionRequest struct {
	InterventionID string `json:"intervention_id"`
}

func (h *Handler) ApplyIntervention(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req interventionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.InterventionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "intervention_id is required")
	}
	out, err := h.svc.ApplyIntervention(c.Request().Context(), id, req.InterventionID)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Reset(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sess, err := h.svc.Reset(c.Request().Context(), id)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

type scoreRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) Score(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Mode == "" {
		req.Mode = ModeWeighted
	}
	out, err := h.svc.Score(c.Request().Context(), id, req.Mode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ListInteractions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	recs, err := h.svc.Interactions(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) ListCases(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Cases().List())
}

func (h *Handler) GetCase(c echo.Context) error {
	def := h.svc.Cases().Get(c.Param("id"))
	if def == nil {
		return echo.NewHTTPError(http.StatusNotFound, "case not found")
	}
	return c.JSON(http.StatusOK, def)
}

// sessionError maps service errors for the tick/intervention/reset paths.
func sessionError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, ErrTerminal):
		return echo.NewHTTPError(http.StatusConflict, "session is terminal")
	case errors.Is(err, ErrNotLive):
		return echo.NewHTTPError(http.StatusConflict, "session has no live engine on this instance")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
