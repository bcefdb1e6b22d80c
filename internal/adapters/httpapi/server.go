package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"pmboard/internal/application"
	"pmboard/internal/application/commands"
	"pmboard/internal/domain"
	"pmboard/internal/logging"
)

// Board is what the API reads from and triggers
type Board interface {
	Snapshot() domain.Snapshot
	Timeline() *domain.Timeline
	Graph() *domain.Graph
	Refresh(ctx context.Context) error
	Analyze(ctx context.Context, projectName string) (string, error)
}

// Forms lists the externally hosted project forms
type Forms struct {
	Add    string `json:"add,omitempty"`
	Edit   string `json:"edit,omitempty"`
	Delete string `json:"delete,omitempty"`
}

// Server exposes the board as a small JSON API for a browser chart
type Server struct {
	board   Board
	forms   Forms
	origins []string
}

// NewServer creates a Server. origins defaults to "*".
func NewServer(board Board, forms Forms, origins []string) *Server {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{board: board, forms: forms, origins: origins}
}

// Handler returns the routed handler with logging and CORS applied
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", s.handleRecords).Methods(http.MethodGet)
	api.HandleFunc("/timeline", s.handleTimeline).Methods(http.MethodGet)
	api.HandleFunc("/graph", s.handleGraph).Methods(http.MethodGet)
	api.HandleFunc("/graph/select", s.handleSelect).Methods(http.MethodGet)
	api.HandleFunc("/analysis", s.handleAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/forms", s.handleForms).Methods(http.MethodGet)

	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"})
	methods := gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions})
	origins := gorillahandlers.AllowedOrigins(s.origins)
	return gorillahandlers.CORS(headers, methods, origins)(r)
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogInfo("serving JSON API on http://%s/api", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError(err, "encode response")
	}
}

// writeError maps application errors onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var valErr *application.ValidationError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
	case errors.Is(err, application.ErrBusy):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type recordsResponse struct {
	Records   []domain.TaskRecord `json:"records"`
	FetchedAt *time.Time          `json:"fetched_at,omitempty"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	snap := s.board.Snapshot()
	resp := recordsResponse{Records: snap.Records}
	if resp.Records == nil {
		resp.Records = []domain.TaskRecord{}
	}
	if !snap.FetchedAt.IsZero() {
		resp.FetchedAt = &snap.FetchedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

type timelineResponse struct {
	Expanded bool                  `json:"expanded"`
	Dropped  int                   `json:"dropped"`
	Projects []domain.ProjectGroup `json:"projects"`
	Groups   []domain.Group        `json:"groups"`
	Items    []domain.Item         `json:"items"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	expand, _ := strconv.ParseBool(r.URL.Query().Get("expand"))

	tl := s.board.Timeline()
	tl.ExpandAll(expand)
	resp := timelineResponse{
		Expanded: tl.Expanded(),
		Dropped:  tl.Dropped,
		Projects: tl.Projects,
		Groups:   tl.Groups(),
		Items:    tl.Items(),
	}
	if resp.Projects == nil {
		resp.Projects = []domain.ProjectGroup{}
		resp.Groups = []domain.Group{}
		resp.Items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type graphResponse struct {
	Nodes []domain.Node `json:"nodes"`
	Edges []domain.Edge `json:"edges"`
}

func newGraphResponse(g *domain.Graph) graphResponse {
	resp := graphResponse{Nodes: g.Nodes, Edges: g.Edges}
	if resp.Nodes == nil {
		resp.Nodes = []domain.Node{}
	}
	if resp.Edges == nil {
		resp.Edges = []domain.Edge{}
	}
	return resp
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newGraphResponse(s.board.Graph()))
}

type selectResponse struct {
	Selection domain.Selection `json:"selection"`
	Star      graphResponse    `json:"star"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := commands.NewSelectCommand(s.board, q.Get("kind"), q.Get("id")).Execute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sel := result.Selection
	if sel.Groups == nil {
		sel.Groups = []domain.SelectionGroup{}
	}
	writeJSON(w, http.StatusOK, selectResponse{Selection: sel, Star: newGraphResponse(result.Star)})
}

type analysisRequest struct {
	ProjectName string `json:"projectName"`
}

type analysisResponse struct {
	AnalysisText string `json:"analysis_text"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &application.ValidationError{Field: "body", Message: err.Error()})
		return
	}

	result, err := commands.NewAnalyzeCommand(s.board, req.ProjectName).Execute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{AnalysisText: result.Text})
}

type refreshResponse struct {
	Records   int       `json:"records"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	snap := s.board.Snapshot()
	writeJSON(w, http.StatusOK, refreshResponse{Records: len(snap.Records), FetchedAt: snap.FetchedAt})
}

func (s *Server) handleForms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.forms)
}
