// Package mock serves a scripted in-memory rendition of the intel API for
// tests and local experiments.
package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/threatintel/client/internal/auth"
	"github.com/threatintel/client/internal/types"
)

const (
	ClientID     = "mock-client-id"
	ClientSecret = "mock-client-secret"

	tokenTTL = 1799
)

// RuleFile is a stored rule set download.
type RuleFile struct {
	Filename     string
	Content      []byte
	ETag         string
	LastModified time.Time
}

// RecordedRequest is one request seen by the server.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Header        http.Header
	Authorization string
}

// Server is an httptest server speaking the intel API.
//
// Tokens are issued as "token-N". API routes accept only the latest issued
// token; RevokeTokens invalidates it so the next call sees a 401. Statuses
// queued with ScriptTokenStatuses and ScriptAPIStatuses are consumed before
// normal handling.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	issued        int
	current       string
	tokenStatuses []int
	apiStatuses   []int
	tokenCalls    int
	apiCalls      int
	requests      []RecordedRequest

	actors      []types.Actor
	indicators  []types.Indicator
	reports     []types.Report
	reportFiles map[string][]byte
	ruleFiles   map[types.RuleSetType]RuleFile
}

// NewServer starts a server with no data.
func NewServer() *Server {
	s := &Server{
		reportFiles: map[string][]byte{},
		ruleFiles:   map[types.RuleSetType]RuleFile{},
	}
	s.Server = httptest.NewServer(s.Router())
	return s
}

// Router returns the route table. NewServer serves it; callers may mount it
// elsewhere.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/oauth2/token", s.handleToken).Methods(http.MethodPost)

	api := r.PathPrefix("/intel").Subrouter()
	api.Use(s.authorize)
	api.HandleFunc("/queries/actors/v1", s.handleActorIDs).Methods(http.MethodGet)
	api.HandleFunc("/combined/actors/v1", s.handleActors).Methods(http.MethodGet)
	api.HandleFunc("/entities/actors/v1", s.handleActorEntities).Methods(http.MethodGet)
	api.HandleFunc("/queries/indicators/v1", s.handleIndicatorIDs).Methods(http.MethodGet)
	api.HandleFunc("/combined/indicators/v1", s.handleIndicators).Methods(http.MethodGet)
	api.HandleFunc("/entities/indicators/GET/v1", s.handleIndicatorEntities).Methods(http.MethodPost)
	api.HandleFunc("/queries/reports/v1", s.handleReportIDs).Methods(http.MethodGet)
	api.HandleFunc("/combined/reports/v1", s.handleReports).Methods(http.MethodGet)
	api.HandleFunc("/entities/reports/v1", s.handleReportEntities).Methods(http.MethodGet)
	api.HandleFunc("/entities/report-files/v1", s.handleReportFile).Methods(http.MethodGet)
	api.HandleFunc("/entities/rules-latest-files/v1", s.handleRuleFile).Methods(http.MethodGet)
	return r
}

// AddActors appends to the actor data set.
func (s *Server) AddActors(actors ...types.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors = append(s.actors, actors...)
}

// AddIndicators appends to the indicator data set.
func (s *Server) AddIndicators(indicators ...types.Indicator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicators = append(s.indicators, indicators...)
}

// AddReports appends to the report data set.
func (s *Server) AddReports(reports ...types.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, reports...)
}

// SetReportFile stores the PDF served for report id.
func (s *Server) SetReportFile(id string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportFiles[id] = content
}

// SetRuleFile replaces the latest file of a rule set.
func (s *Server) SetRuleFile(t types.RuleSetType, f RuleFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ruleFiles[t] = f
}

// ScriptTokenStatuses queues statuses returned by the token endpoint.
func (s *Server) ScriptTokenStatuses(codes ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenStatuses = append(s.tokenStatuses, codes...)
}

// ScriptAPIStatuses queues statuses returned by authorized API routes.
func (s *Server) ScriptAPIStatuses(codes ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiStatuses = append(s.apiStatuses, codes...)
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

// TokenCalls counts token endpoint requests.
func (s *Server) TokenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenCalls
}

// APICalls counts requests to the intel routes, rejected ones included.
func (s *Server) APICalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiCalls
}

// Requests returns a copy of every recorded API request.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.tokenCalls++
	status := pop(&s.tokenStatuses)
	s.mu.Unlock()

	if status != 0 && status != http.StatusCreated {
		writeError(w, status, fmt.Sprintf("scripted status %d", status))
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	if r.PostForm.Get("client_id") != ClientID || r.PostForm.Get("client_secret") != ClientSecret {
		writeError(w, http.StatusUnauthorized, "access denied, invalid client credentials")
		return
	}

	s.mu.Lock()
	s.issued++
	s.current = "token-" + strconv.Itoa(s.issued)
	token := s.current
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, auth.Token{AccessToken: token, TokenType: "bearer", ExpiresIn: tokenTTL})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.apiCalls++
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Header:        r.Header.Clone(),
			Authorization: r.Header.Get("Authorization"),
		})
		valid := s.current != "" && r.Header.Get("Authorization") == "bearer "+s.current
		status := pop(&s.apiStatuses)
		s.mu.Unlock()

		if status != 0 {
			writeError(w, status, fmt.Sprintf("scripted status %d", status))
			return
		}
		if !valid {
			writeError(w, http.StatusUnauthorized, "access denied, authorization failed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pop(q *[]int) int {
	if len(*q) == 0 {
		return 0
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{
		Meta:   types.Meta{TraceID: "mock-trace", QueryTime: 0.001},
		Errors: []types.ErrorDetail{{Code: status, Message: msg}},
	})
}

func writeResources[T any](w http.ResponseWriter, resources []T, offset, limit, total int) {
	if resources == nil {
		resources = []T{}
	}
	writeJSON(w, http.StatusOK, types.Response[T]{
		Meta: types.Meta{
			TraceID:    "mock-trace",
			QueryTime:  0.001,
			Pagination: &types.Pagination{Offset: types.Offset(strconv.Itoa(offset)), Limit: limit, Total: total},
		},
		Resources: resources,
	})
}

// window applies offset/limit to n items.
func window(q url.Values, n int) (offset, end, limit int) {
	offset, _ = strconv.Atoi(q.Get(types.ParamOffset))
	limit, _ = strconv.Atoi(q.Get(types.ParamLimit))
	if limit <= 0 {
		limit = 100
	}
	offset = min(max(offset, 0), n)
	end = min(offset+limit, n)
	return offset, end, limit
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
