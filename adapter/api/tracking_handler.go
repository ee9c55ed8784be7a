package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/pacer/internal/app"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

// TrackingQueries are the application queries served over HTTP.
type TrackingQueries struct {
	GetProject       *queries.GetProjectHandler
	ListProjects     *queries.ListProjectsHandler
	GetTask          *queries.GetTaskHandler
	ListTasks        *queries.ListTasksHandler
	ProjectMetrics   *queries.GetProjectMetricsHandler
	Alerts           *queries.ListAlertsHandler
	KPIs             *queries.GetKPIsHandler
	PortfolioSummary *queries.GetPortfolioSummaryHandler
	Calendar         *queries.GetCalendarHandler
	CurrentWeek      *queries.CurrentWeekHandler
	Snapshots        *queries.ListSnapshotsHandler
	WeeklySummary    *queries.WeeklySummaryHandler
	WeeklyTrends     *queries.WeeklyTrendsHandler
}

// QueriesFrom collects the query handlers wired by c.
func QueriesFrom(c *app.Container) TrackingQueries {
	return TrackingQueries{
		GetProject:       c.GetProjectHandler,
		ListProjects:     c.ListProjectsHandler,
		GetTask:          c.GetTaskHandler,
		ListTasks:        c.ListTasksHandler,
		ProjectMetrics:   c.GetProjectMetricsHandler,
		Alerts:           c.ListAlertsHandler,
		KPIs:             c.GetKPIsHandler,
		PortfolioSummary: c.GetPortfolioSummaryHandler,
		Calendar:         c.GetCalendarHandler,
		CurrentWeek:      c.CurrentWeekHandler,
		Snapshots:        c.ListSnapshotsHandler,
		WeeklySummary:    c.WeeklySummaryHandler,
		WeeklyTrends:     c.WeeklyTrendsHandler,
	}
}

// TrackingHandler handles the project, dashboard and snapshot endpoints.
type TrackingHandler struct {
	q      TrackingQueries
	logger *slog.Logger
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(q TrackingQueries, logger *slog.Logger) *TrackingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingHandler{q: q, logger: logger}
}

// ListProjects handles GET /api/v1/projects?page=&limit=
func (h *TrackingHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		h.fail(w, err)
		return
	}
	limit, err := intParam(r, "limit", domain.DefaultPageLimit)
	if err != nil {
		h.fail(w, err)
		return
	}

	projects, err := h.q.ListProjects.Handle(r.Context(), queries.ListProjectsQuery{Page: page, Limit: limit})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetProject handles GET /api/v1/projects/{projectID}
func (h *TrackingHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		h.fail(w, err)
		return
	}
	project, err := h.q.GetProject.Handle(r.Context(), projectID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ListTasks handles GET /api/v1/projects/{projectID}/tasks
func (h *TrackingHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		h.fail(w, err)
		return
	}
	tasks, err := h.q.ListTasks.Handle(r.Context(), projectID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// GetProjectMetrics handles GET /api/v1/projects/{projectID}/metrics
func (h *TrackingHandler) GetProjectMetrics(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		h.fail(w, err)
		return
	}
	metrics, err := h.q.ProjectMetrics.Handle(r.Context(), projectID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// GetCalendar handles GET /api/v1/projects/{projectID}/calendar with
// startYear, startMonth, endYear and endMonth. A missing start defaults to
// the current month and a missing end to the start.
func (h *TrackingHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		h.fail(w, err)
		return
	}

	current := domain.MonthRangeOf(h.q.CurrentWeek.Bucket())
	var rng domain.MonthRange
	for _, p := range []struct {
		name string
		dst  *int
		def  *int
	}{
		{"startYear", &rng.StartYear, &current.StartYear},
		{"startMonth", &rng.StartMonth, &current.StartMonth},
		{"endYear", &rng.EndYear, &rng.StartYear},
		{"endMonth", &rng.EndMonth, &rng.StartMonth},
	} {
		if *p.dst, err = intParam(r, p.name, *p.def); err != nil {
			h.fail(w, err)
			return
		}
	}

	rows, err := h.q.Calendar.Handle(r.Context(), queries.GetCalendarQuery{ProjectID: projectID, Range: rng})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projectId": projectID, "data": rows})
}

// GetTask handles GET /api/v1/tasks/{taskID}
func (h *TrackingHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		h.fail(w, err)
		return
	}
	task, err := h.q.GetTask.Handle(r.Context(), taskID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ListTaskSnapshots handles GET /api/v1/tasks/{taskID}/snapshots?year=&month=
func (h *TrackingHandler) ListTaskSnapshots(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		h.fail(w, err)
		return
	}
	query := queries.ListSnapshotsQuery{TaskID: &taskID}
	if query.Filter.Year, err = optionalIntParam(r, "year"); err != nil {
		h.fail(w, err)
		return
	}
	if query.Filter.Month, err = optionalIntParam(r, "month"); err != nil {
		h.fail(w, err)
		return
	}

	snapshots, err := h.q.Snapshots.Handle(r.Context(), query)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// ListAlerts handles GET /api/v1/alerts?projectId=
func (h *TrackingHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	projectID, err := optionalIDParam(r, "projectId")
	if err != nil {
		h.fail(w, err)
		return
	}
	alerts, err := h.q.Alerts.Handle(r.Context(), queries.ListAlertsQuery{ProjectID: projectID})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// GetKPIs handles GET /api/v1/kpis
func (h *TrackingHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.q.KPIs.Handle(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kpis)
}

// GetPortfolioSummary handles GET /api/v1/summary
func (h *TrackingHandler) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.q.PortfolioSummary.Handle(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetWeeklySummary handles GET /api/v1/snapshots/summary?year=&month=&week=&projectId=
func (h *TrackingHandler) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	bucket, err := h.bucketParams(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	projectID, err := optionalIDParam(r, "projectId")
	if err != nil {
		h.fail(w, err)
		return
	}

	summary, err := h.q.WeeklySummary.Handle(r.Context(), queries.WeeklySummaryQuery{Bucket: bucket, ProjectID: projectID})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"week": bucket, "summary": summary})
}

// GetWeeklyTrends handles GET /api/v1/snapshots/trends?year=&month=&week=
func (h *TrackingHandler) GetWeeklyTrends(w http.ResponseWriter, r *http.Request) {
	bucket, err := h.bucketParams(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	trends, err := h.q.WeeklyTrends.Handle(r.Context(), bucket)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"week": bucket, "projects": trends})
}

// GetCurrentWeek handles GET /api/v1/snapshots/current-week?projectId=
func (h *TrackingHandler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	projectID, err := optionalIDParam(r, "projectId")
	if err != nil {
		h.fail(w, err)
		return
	}
	week, err := h.q.CurrentWeek.Handle(r.Context(), projectID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// bucketParams reads year, month and week, defaulting each to the current week.
func (h *TrackingHandler) bucketParams(r *http.Request) (domain.Bucket, error) {
	b := h.q.CurrentWeek.Bucket()
	var err error
	if b.Year, err = intParam(r, "year", b.Year); err != nil {
		return b, err
	}
	if b.Month, err = intParam(r, "month", b.Month); err != nil {
		return b, err
	}
	if b.Week, err = intParam(r, "week", b.Week); err != nil {
		return b, err
	}
	return b, b.Validate()
}

func (h *TrackingHandler) fail(w http.ResponseWriter, err error) {
	writeError(w, h.logger, err)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, badRequest("invalid " + name)
	}
	return id, nil
}

func optionalIDParam(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &id, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return v, nil
}

func optionalIntParam(r *http.Request, name string) (*int, error) {
	if r.URL.Query().Get(name) == "" {
		return nil, nil
	}
	v, err := intParam(r, name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
