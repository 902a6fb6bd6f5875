package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/repos"
  "github.com/smartasset-org/smartasset-backend/internal/requestdata"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

const sessionTitleMaxRunes = 50

// SendResult is the outcome of one completed chat turn.
type SendResult struct {
  Session          *types.ChatSession
  UserMessage      *types.ChatMessage
  AssistantMessage *types.ChatMessage
}

// AdvisorService orchestrates chat turns: session resolution, durable
// user-message append, context assembly, response-source resolution,
// generation, and exactly-once assistant persistence.
type AdvisorService interface {
  StartNewSession(ctx context.Context, title string) (*types.ChatSession, error)
  GetUserSessions(ctx context.Context) ([]*types.ChatSession, error)
  GetSessionWithMessages(ctx context.Context, sessionID uuid.UUID) (*types.ChatSession, []*types.ChatMessage, error)
  UpdateSessionTitle(ctx context.Context, sessionID uuid.UUID, title string) (*types.ChatSession, error)
  DeleteSession(ctx context.Context, sessionID uuid.UUID) error

  // ResolveSession fetches the ownership-checked session, or creates one
  // titled from the first message when sessionID is uuid.Nil. It runs
  // before any message is appended so a NotFound aborts without mutation.
  ResolveSession(ctx context.Context, sessionID uuid.UUID, firstMessage string) (*types.ChatSession, error)
  SendMessage(ctx context.Context, session *types.ChatSession, message string) (*SendResult, error)
  // SendMessageStream forwards fragments through emit as they arrive and
  // persists the concatenation afterwards. If emit fails (caller gone),
  // forwarding stops but whatever text was produced is still persisted.
  SendMessageStream(ctx context.Context, session *types.ChatSession, message string, emit func(fragment string) error) (*SendResult, error)
}

type advisorService struct {
  db              *gorm.DB
  log             *logger.Logger
  sessionRepo     repos.ChatSessionRepo
  messageRepo     repos.ChatMessageRepo
  ollama          OllamaService
  mock            *MockAdvisorService
  forceMock       bool
}

func NewAdvisorService(
  db *gorm.DB,
  log *logger.Logger,
  sessionRepo repos.ChatSessionRepo,
  messageRepo repos.ChatMessageRepo,
  ollama OllamaService,
  mock *MockAdvisorService,
  forceMock bool,
) AdvisorService {
  return &advisorService{
    db:          db,
    log:         log.With("service", "AdvisorService"),
    sessionRepo: sessionRepo,
    messageRepo: messageRepo,
    ollama:      ollama,
    mock:        mock,
    forceMock:   forceMock,
  }
}

// resolveGenerator picks the response source once, with identical
// precedence for the streaming and non-streaming paths: forced mock mode,
// then the availability probe, then the live backend.
func (as *advisorService) resolveGenerator(ctx context.Context) ReplyGenerator {
  if as.forceMock {
    return as.mock
  }
  if !as.ollama.IsAvailable(ctx) {
    as.log.Warn("ollama not available, falling back to mock response")
    return as.mock
  }
  return as.ollama
}

func (as *advisorService) requester(ctx context.Context) (*requestdata.RequestData, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("request data is not set in context")
  }
  return rd, nil
}

func (as *advisorService) StartNewSession(ctx context.Context, title string) (*types.ChatSession, error) {
  rd, err := as.requester(ctx)
  if err != nil {
    return nil, err
  }
  session := &types.ChatSession{
    UserID: rd.UserID,
    Title:  title,
  }
  return as.sessionRepo.CreateSession(ctx, nil, session)
}

func (as *advisorService) GetUserSessions(ctx context.Context) ([]*types.ChatSession, error) {
  rd, err := as.requester(ctx)
  if err != nil {
    return nil, err
  }
  return as.sessionRepo.GetUserSessions(ctx, nil, rd.UserID)
}

func (as *advisorService) GetSessionWithMessages(ctx context.Context, sessionID uuid.UUID) (*types.ChatSession, []*types.ChatMessage, error) {
  rd, err := as.requester(ctx)
  if err != nil {
    return nil, nil, err
  }
  session, err := as.sessionRepo.GetOwnedSession(ctx, nil, sessionID, rd.UserID)
  if err != nil {
    return nil, nil, err
  }
  messages, err := as.messageRepo.GetBySessionID(ctx, nil, sessionID)
  if err != nil {
    return nil, nil, err
  }
  return session, messages, nil
}

func (as *advisorService) UpdateSessionTitle(ctx context.Context, sessionID uuid.UUID, title string) (*types.ChatSession, error) {
  rd, err := as.requester(ctx)
  if err != nil {
    return nil, err
  }
  if _, err := as.sessionRepo.GetOwnedSession(ctx, nil, sessionID, rd.UserID); err != nil {
    return nil, err
  }
  return as.sessionRepo.UpdateTitle(ctx, nil, sessionID, title)
}

func (as *advisorService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
  rd, err := as.requester(ctx)
  if err != nil {
    return err
  }
  if _, err := as.sessionRepo.GetOwnedSession(ctx, nil, sessionID, rd.UserID); err != nil {
    return err
  }
  return as.sessionRepo.DeleteSession(ctx, nil, sessionID)
}

func (as *advisorService) ResolveSession(ctx context.Context, sessionID uuid.UUID, firstMessage string) (*types.ChatSession, error) {
  rd, err := as.requester(ctx)
  if err != nil {
    return nil, err
  }
  if sessionID != uuid.Nil {
    return as.sessionRepo.GetOwnedSession(ctx, nil, sessionID, rd.UserID)
  }
  session := &types.ChatSession{
    UserID: rd.UserID,
    Title:  deriveSessionTitle(firstMessage),
  }
  return as.sessionRepo.CreateSession(ctx, nil, session)
}

func (as *advisorService) SendMessage(ctx context.Context, session *types.ChatSession, message string) (*SendResult, error) {
  userMsg, history, err := as.appendUserMessage(ctx, session, message)
  if err != nil {
    return nil, err
  }

  generator := as.resolveGenerator(ctx)
  content := generator.Generate(ctx, message, history)

  assistantMsg, err := as.persistAssistantReply(ctx, session, content)
  if err != nil {
    return nil, err
  }
  return &SendResult{Session: session, UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

func (as *advisorService) SendMessageStream(ctx context.Context, session *types.ChatSession, message string, emit func(fragment string) error) (*SendResult, error) {
  userMsg, history, err := as.appendUserMessage(ctx, session, message)
  if err != nil {
    return nil, err
  }

  generator := as.resolveGenerator(ctx)
  fragments := generator.GenerateStream(ctx, message, history)

  var full strings.Builder
  var emitErr error
  for fragment := range fragments {
    full.WriteString(fragment)
    if emitErr != nil {
      continue // caller is gone; keep draining so the full turn is captured
    }
    if err := emit(fragment); err != nil {
      emitErr = err
      as.log.Warn("stopped forwarding fragments to caller", "error", err)
    }
  }

  // Persist whatever was produced even if the transport died mid-stream,
  // so a complete model turn is never silently lost.
  persistCtx := context.WithoutCancel(ctx)
  assistantMsg, err := as.persistAssistantReply(persistCtx, session, full.String())
  if err != nil {
    return nil, err
  }
  if emitErr != nil {
    return &SendResult{Session: session, UserMessage: userMsg, AssistantMessage: assistantMsg}, emitErr
  }
  return &SendResult{Session: session, UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// appendUserMessage durably commits the user's message before generation
// begins, then rebuilds the prompt history from persisted messages. The
// just-appended message is excluded from the history because the prompt
// builder appends it again as the current turn.
func (as *advisorService) appendUserMessage(ctx context.Context, session *types.ChatSession, message string) (*types.ChatMessage, []types.PromptMessage, error) {
  if session == nil {
    return nil, nil, fmt.Errorf("session cannot be nil")
  }
  created, err := as.messageRepo.CreateMessages(ctx, nil, []*types.ChatMessage{{
    SessionID: session.ID,
    Role:      types.RoleUser,
    Content:   message,
  }})
  if err != nil {
    return nil, nil, err
  }
  userMsg := created[0]

  messages, err := as.messageRepo.GetBySessionID(ctx, nil, session.ID)
  if err != nil {
    return nil, nil, err
  }
  history := make([]types.PromptMessage, 0, len(messages))
  for _, m := range messages {
    if m.ID == userMsg.ID {
      continue
    }
    history = append(history, types.PromptMessage{Role: m.Role, Content: m.Content})
  }
  return userMsg, history, nil
}

func (as *advisorService) persistAssistantReply(ctx context.Context, session *types.ChatSession, content string) (*types.ChatMessage, error) {
  created, err := as.messageRepo.CreateMessages(ctx, nil, []*types.ChatMessage{{
    SessionID: session.ID,
    Role:      types.RoleAssistant,
    Content:   content,
  }})
  if err != nil {
    return nil, err
  }
  if err := as.sessionRepo.Touch(ctx, nil, session.ID); err != nil {
    as.log.Warn("failed to advance session updated_at", "error", err)
  }
  return created[0], nil
}

func deriveSessionTitle(message string) string {
  runes := []rune(message)
  if len(runes) > sessionTitleMaxRunes {
    return string(runes[:sessionTitleMaxRunes]) + "..."
  }
  return message
}
