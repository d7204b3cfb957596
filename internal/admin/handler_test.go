package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "botilleria/pkg/domain"
	"botilleria/pkg/platform/audit"
	auditmemory "botilleria/pkg/platform/audit/store/memory"
)

type AdminHandlerSuite struct {
	suite.Suite

	store  *auditmemory.InMemoryStore
	router chi.Router
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func (s *AdminHandlerSuite) SetupTest() {
	s.store = auditmemory.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.store, logger).Register(s.router)
}

func (s *AdminHandlerSuite) appendEvent(sessionID id.SessionID, action audit.Action) {
	s.Require().NoError(s.store.Append(context.Background(), audit.Event{
		Timestamp: time.Date(2025, time.June, 15, 15, 0, 0, 0, time.UTC),
		SessionID: sessionID,
		Action:    action,
		Method:    "id_document",
		Success:   action == audit.ActionVerificationSucceeded,
	}))
}

func (s *AdminHandlerSuite) TestListRecent() {
	sessionID := id.NewSessionID()
	s.appendEvent(sessionID, audit.ActionVerificationSucceeded)
	s.appendEvent(sessionID, audit.ActionComplianceEvaluated)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/compliance-log", nil))

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp ListResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(s.T(), 2, resp.Count)
	assert.Equal(s.T(), "age_verification_succeeded", resp.Events[0].Action)
	assert.Equal(s.T(), sessionID.String(), resp.Events[0].SessionID)
}

func (s *AdminHandlerSuite) TestListRecentHonorsLimit() {
	sessionID := id.NewSessionID()
	for range 5 {
		s.appendEvent(sessionID, audit.ActionVerificationSucceeded)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/compliance-log?limit=3", nil))

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp ListResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), 3, resp.Count)
}

func (s *AdminHandlerSuite) TestListRecentRejectsBadLimit() {
	for _, raw := range []string{"0", "-1", "abc"} {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/compliance-log?limit="+raw, nil))
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, raw)
	}
}

func (s *AdminHandlerSuite) TestListBySession() {
	mine := id.NewSessionID()
	other := id.NewSessionID()
	s.appendEvent(mine, audit.ActionVerificationSucceeded)
	s.appendEvent(other, audit.ActionVerificationDeclined)
	s.appendEvent(mine, audit.ActionVerificationReplayed)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/compliance-log/sessions/"+mine.String(), nil))

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp ListResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(s.T(), 2, resp.Count)
	for _, e := range resp.Events {
		assert.Equal(s.T(), mine.String(), e.SessionID)
	}
}

func (s *AdminHandlerSuite) TestListBySessionBadID() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/compliance-log/sessions/nope", nil))
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AdminHandlerSuite) TestListRecentEmpty() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/compliance-log", nil))

	require.Equal(s.T(), http.StatusOK, w.Code)
	var resp ListResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), 0, resp.Count)
	assert.NotNil(s.T(), resp.Events)
}
