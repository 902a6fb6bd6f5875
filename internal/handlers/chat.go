package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/services"
)

type ChatHandler struct {
  log            *logger.Logger
  advisorService services.AdvisorService
}

func NewChatHandler(log *logger.Logger, advisorService services.AdvisorService) *ChatHandler {
  return &ChatHandler{
    log:            log.With("handler", "ChatHandler"),
    advisorService: advisorService,
  }
}

type sendRequest struct {
  Message   string `json:"message"`
  SessionID string `json:"session_id,omitempty"`
}

func (sr *sendRequest) sessionID() (uuid.UUID, error) {
  if sr.SessionID == "" {
    return uuid.Nil, nil
  }
  return uuid.Parse(sr.SessionID)
}

func (ch *ChatHandler) CreateSession(c *gin.Context) {
  var req struct {
    Title string `json:"title"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  session, err := ch.advisorService.StartNewSession(c.Request.Context(), req.Title)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, session)
}

func (ch *ChatHandler) ListSessions(c *gin.Context) {
  sessions, err := ch.advisorService.GetUserSessions(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, sessions)
}

func (ch *ChatHandler) GetSession(c *gin.Context) {
  sessionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
    return
  }
  session, messages, err := ch.advisorService.GetSessionWithMessages(c.Request.Context(), sessionID)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"session": session, "messages": messages})
}

func (ch *ChatHandler) UpdateSession(c *gin.Context) {
  sessionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
    return
  }
  var req struct {
    Title string `json:"title"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
    return
  }
  session, err := ch.advisorService.UpdateSessionTitle(c.Request.Context(), sessionID, req.Title)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, session)
}

func (ch *ChatHandler) DeleteSession(c *gin.Context) {
  sessionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
    return
  }
  if err := ch.advisorService.DeleteSession(c.Request.Context(), sessionID); err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

func (ch *ChatHandler) Send(c *gin.Context) {
  var req sendRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  sessionID, err := req.sessionID()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
    return
  }

  ctx := c.Request.Context()
  session, err := ch.advisorService.ResolveSession(ctx, sessionID, req.Message)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }

  result, err := ch.advisorService.SendMessage(ctx, session, req.Message)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "session_id":        result.Session.ID,
    "user_message":      result.UserMessage,
    "assistant_message": result.AssistantMessage,
  })
}

// SendStream replays the assistant's reply as server-sent events. The
// session id is surfaced in a response header before the first fragment so
// clients that just created a session can learn its id, and the stream is
// terminated with a [DONE] sentinel.
func (ch *ChatHandler) SendStream(c *gin.Context) {
  var req sendRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  sessionID, err := req.sessionID()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
    return
  }

  ctx := c.Request.Context()
  session, err := ch.advisorService.ResolveSession(ctx, sessionID, req.Message)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }

  flusher, ok := c.Writer.(http.Flusher)
  if !ok {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
    return
  }

  c.Header("Content-Type", "text/event-stream")
  c.Header("Cache-Control", "no-cache")
  c.Header("Connection", "keep-alive")
  c.Header("X-Session-ID", session.ID.String())
  c.Writer.WriteHeader(http.StatusOK)
  flusher.Flush()

  _, err = ch.advisorService.SendMessageStream(ctx, session, req.Message, func(fragment string) error {
    if _, werr := fmt.Fprintf(c.Writer, "data: %s\n\n", fragment); werr != nil {
      return werr
    }
    flusher.Flush()
    return nil
  })
  if err != nil {
    ch.log.Warn("chat stream ended early", "error", err)
    return
  }
  fmt.Fprint(c.Writer, "data: [DONE]\n\n")
  flusher.Flush()
}
