package appraisalhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraisal/internal/domain/appraisal"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
	"appraisal/internal/transport/http/shared"
)

type Handler struct {
	Engine *appraisal.Service
}

func NewHandler(engine *appraisal.Service) *Handler {
	return &Handler{Engine: engine}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/appraisal", func(r chi.Router) {
		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/templates", h.handleCreateTemplate)
		r.With(middleware.RequireRole(appraisal.RoleHR, appraisal.RoleManager)).Get("/templates", h.handleListTemplates)
		r.With(middleware.RequireRole(appraisal.RoleHR, appraisal.RoleManager)).Get("/templates/{templateID}", h.handleGetTemplate)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Put("/templates/{templateID}/criteria", h.handleUpdateTemplateCriteria)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/templates/{templateID}/deactivate", h.handleDeactivateTemplate)

		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/cycles", h.handleCreateCycle)
		r.With(middleware.RequireRole(appraisal.RoleHR, appraisal.RoleManager)).Get("/cycles", h.handleListCycles)
		r.With(middleware.RequireRole(appraisal.RoleHR, appraisal.RoleManager)).Get("/cycles/{cycleID}", h.handleGetCycle)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/cycles/{cycleID}/activate", h.handleActivateCycle)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/cycles/{cycleID}/close", h.handleCloseCycle)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/cycles/{cycleID}/archive", h.handleArchiveCycle)
		r.With(middleware.RequireRole(appraisal.RoleHR, appraisal.RoleManager)).Get("/cycles/{cycleID}/analytics", h.handleCycleAnalytics)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Get("/cycles/{cycleID}/summary/pdf", h.handleCycleSummaryPDF)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Get("/cycles/{cycleID}/disputes", h.handleListDisputes)

		r.Get("/assignments", h.handleListAssignments)
		r.Get("/assignments/{assignmentID}", h.handleGetAssignment)
		r.Get("/assignments/{assignmentID}/record", h.handleGetRecord)
		r.Get("/assignments/{assignmentID}/dispute-window", h.handleDisputeWindow)
		r.With(middleware.RequireRole(appraisal.RoleManager)).Post("/assignments/{assignmentID}/start", h.handleStart)
		r.With(middleware.RequireRole(appraisal.RoleManager)).Post("/assignments/{assignmentID}/submit", h.handleSubmit)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/assignments/{assignmentID}/publish", h.handlePublish)
		r.With(middleware.RequireRole(appraisal.RoleHR)).Post("/assignments/{assignmentID}/return", h.handleReturn)
		r.With(middleware.RequireRole(appraisal.RoleEmployee)).Post("/assignments/{assignmentID}/acknowledge", h.handleAcknowledge)
		r.With(middleware.RequireRole(appraisal.RoleEmployee)).Post("/assignments/{assignmentID}/disputes", h.handleRaiseDispute)
	})
}

func actorFrom(r *http.Request) (appraisal.Actor, bool) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		return appraisal.Actor{}, false
	}
	return appraisal.Actor{EmployeeID: actor.EmployeeID, Role: actor.Role}, true
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input appraisal.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	tmpl, err := h.Engine.CreateTemplate(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	templates, err := h.Engine.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.Engine.GetTemplate(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTemplateCriteria(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Criteria []appraisal.Criterion `json:"criteria"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	tmpl, err := h.Engine.UpdateTemplateCriteria(r.Context(), chi.URLParam(r, "templateID"), payload.Criteria)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivateTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeactivateTemplate(r.Context(), chi.URLParam(r, "templateID")); err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name                string                         `json:"name"`
		CycleType           string                         `json:"cycleType"`
		StartDate           string                         `json:"startDate"`
		EndDate             string                         `json:"endDate"`
		ManagerDueDate      string                         `json:"managerDueDate"`
		EmployeeAckDueDate  string                         `json:"employeeAcknowledgementDueDate"`
		TemplateAssignments []appraisal.TemplateAssignment `json:"templateAssignments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	input := appraisal.CycleInput{
		Name:                payload.Name,
		CycleType:           payload.CycleType,
		TemplateAssignments: payload.TemplateAssignments,
	}
	var err error
	if input.StartDate, err = shared.ParseDate(payload.StartDate); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "startDate must be a valid date", middleware.GetRequestID(r.Context()))
		return
	}
	if input.EndDate, err = shared.ParseDate(payload.EndDate); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "endDate must be a valid date", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.ManagerDueDate != "" {
		due, err := shared.ParseDate(payload.ManagerDueDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "managerDueDate must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		input.ManagerDueDate = &due
	}
	if payload.EmployeeAckDueDate != "" {
		due, err := shared.ParseDate(payload.EmployeeAckDueDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeAcknowledgementDueDate must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		input.EmployeeAckDueDate = &due
	}

	cycle, err := h.Engine.CreateCycle(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.Engine.ListCycles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Engine.GetCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActivateCycle(w http.ResponseWriter, r *http.Request) {
	result, err := h.Engine.ActivateCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCloseCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Engine.CloseCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleArchiveCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Engine.ArchiveCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCycleAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Engine.Summarize(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCycleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=cycle-summary.pdf")
	if err := h.Engine.WriteSummaryPDF(r.Context(), chi.URLParam(r, "cycleID"), w); err != nil {
		writeError(w, r, err)
	}
}

func (h *Handler) handleListDisputes(w http.ResponseWriter, r *http.Request) {
	disputes, err := h.Engine.ListDisputes(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, disputes, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	assignments, err := h.Engine.ListAssignments(r.Context(), r.URL.Query().Get("cycleId"), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, assignments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.Engine.GetAssignment(r.Context(), chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.Engine.LatestRecord(r.Context(), chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDisputeWindow(w http.ResponseWriter, r *http.Request) {
	window, err := h.Engine.CheckDisputeWindow(r.Context(), chi.URLParam(r, "assignmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, window, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	assignment, err := h.Engine.StartAssignment(r.Context(), chi.URLParam(r, "assignmentID"), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	var payload struct {
		Ratings        []appraisal.Rating `json:"ratings"`
		ManagerSummary string             `json:"managerSummary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	record, err := h.Engine.SubmitAssignment(r.Context(), chi.URLParam(r, "assignmentID"), payload.Ratings, payload.ManagerSummary, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	var payload struct {
		ManagerSummary string `json:"managerSummary"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}
	record, err := h.Engine.PublishAssignment(r.Context(), chi.URLParam(r, "assignmentID"), payload.ManagerSummary, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	assignment, err := h.Engine.ReturnForRevision(r.Context(), chi.URLParam(r, "assignmentID"), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	assignment, err := h.Engine.AcknowledgeAssignment(r.Context(), chi.URLParam(r, "assignmentID"), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRaiseDispute(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r)
	var input appraisal.DisputeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	dispute, err := h.Engine.RaiseDispute(r.Context(), chi.URLParam(r, "assignmentID"), input, actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, dispute, middleware.GetRequestID(r.Context()))
}
