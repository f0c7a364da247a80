package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/robin-app/ideation/advisor/profile"
	"github.com/robin-app/ideation/prompts"
)

// decodeBody decodes a JSON request body into req, enforcing the size cap.
// A false return means the error response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, req any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// ResearchRequest is the request body for POST /api/research.
type ResearchRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req ResearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "Business description cannot be empty")
		return
	}

	writeOutcome(w, s.services.Research.Perform(r.Context(), req.Description))
}

// NamesRequest is the request body for POST /api/names.
type NamesRequest struct {
	Description     string `json:"description"`
	ResearchSummary string `json:"researchSummary"`
}

func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	var req NamesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "Business description cannot be empty")
		return
	}

	writeOutcome(w, s.services.Naming.Suggest(r.Context(), req.Description, req.ResearchSummary))
}

// BusinessTypeRequest is the request body for POST /api/business-type.
type BusinessTypeRequest struct {
	Description     string `json:"description"`
	BusinessName    string `json:"businessName"`
	ResearchSummary string `json:"researchSummary"`
}

func (s *Server) handleBusinessType(w http.ResponseWriter, r *http.Request) {
	var req BusinessTypeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "Business description cannot be empty")
		return
	}

	writeOutcome(w, s.services.Entity.Assess(r.Context(), req.Description, req.BusinessName, req.ResearchSummary))
}

// ProfileRequest is the request body for POST /api/profile.
type ProfileRequest struct {
	History []prompts.ChatTurn `json:"history"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.History) == 0 {
		writeError(w, http.StatusBadRequest, "Conversation history is required")
		return
	}

	writeOutcome(w, s.services.Profile.Extract(r.Context(), req.History))
}

// OnboardingRequest is the request body for POST /api/onboarding.
type OnboardingRequest struct {
	History []prompts.ChatTurn `json:"history"`
	Message string             `json:"message"`
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req OnboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	writeOutcome(w, s.services.Profile.Chat(r.Context(), req.History, req.Message))
}

// TasksRequest is the request body for POST /api/tasks.
type TasksRequest struct {
	Profile      profile.BusinessProfile `json:"profile"`
	History      []prompts.ChatTurn      `json:"history"`
	CurrentTasks []string                `json:"currentTasks"`
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	var req TasksRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Profile.Industry) == "" {
		writeError(w, http.StatusBadRequest, "Business profile is required")
		return
	}

	writeOutcome(w, s.services.Tasks.Generate(r.Context(), req.Profile, req.History, req.CurrentTasks))
}

// AnalysisRequest is the request body for POST /api/analysis.
type AnalysisRequest struct {
	Profile profile.BusinessProfile `json:"profile"`
	History []prompts.ChatTurn      `json:"history"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Profile.Industry) == "" {
		writeError(w, http.StatusBadRequest, "Business profile is required")
		return
	}

	writeOutcome(w, s.services.Analysis.Perform(r.Context(), req.Profile, req.History))
}
