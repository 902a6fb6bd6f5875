package handlers

import (
  "context"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/services"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  require.NoError(t, err)
  return log
}

// fakeAdvisor records the orchestrator calls the handler makes.
type fakeAdvisor struct {
  services.AdvisorService
  resolved     []string
  sentMessages []string
}

func (f *fakeAdvisor) ResolveSession(_ context.Context, sessionID uuid.UUID, firstMessage string) (*types.ChatSession, error) {
  f.resolved = append(f.resolved, firstMessage)
  return &types.ChatSession{ID: uuid.New(), Title: firstMessage}, nil
}

func (f *fakeAdvisor) SendMessage(_ context.Context, session *types.ChatSession, message string) (*services.SendResult, error) {
  f.sentMessages = append(f.sentMessages, message)
  return &services.SendResult{
    Session:          session,
    UserMessage:      &types.ChatMessage{SessionID: session.ID, Role: types.RoleUser, Content: message},
    AssistantMessage: &types.ChatMessage{SessionID: session.ID, Role: types.RoleAssistant, Content: "reply"},
  }, nil
}

func newChatRouter(t *testing.T, advisor *fakeAdvisor) *gin.Engine {
  t.Helper()
  gin.SetMode(gin.TestMode)
  handler := NewChatHandler(testLogger(t), advisor)
  router := gin.New()
  router.POST("/chat/send", handler.Send)
  return router
}

func TestChatSendAcceptsEmptyMessage(t *testing.T) {
  advisor := &fakeAdvisor{}
  router := newChatRouter(t, advisor)

  req := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(`{"message": ""}`))
  req.Header.Set("Content-Type", "application/json")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  assert.Equal(t, http.StatusOK, w.Code)
  require.Len(t, advisor.resolved, 1)
  assert.Equal(t, "", advisor.resolved[0])
  require.Len(t, advisor.sentMessages, 1)
  assert.Equal(t, "", advisor.sentMessages[0])
}

func TestChatSendRejectsMalformedBody(t *testing.T) {
  advisor := &fakeAdvisor{}
  router := newChatRouter(t, advisor)

  req := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(`{"message":`))
  req.Header.Set("Content-Type", "application/json")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  assert.Equal(t, http.StatusBadRequest, w.Code)
  assert.Empty(t, advisor.resolved)
}

func TestChatSendRejectsBadSessionID(t *testing.T) {
  advisor := &fakeAdvisor{}
  router := newChatRouter(t, advisor)

  req := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(`{"message":"hi","session_id":"not-a-uuid"}`))
  req.Header.Set("Content-Type", "application/json")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)

  assert.Equal(t, http.StatusBadRequest, w.Code)
  assert.Empty(t, advisor.resolved)
}
