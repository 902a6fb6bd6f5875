package services

import (
  "context"
  "errors"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/requestdata"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type fakeSessionRepo struct {
  sessions map[uuid.UUID]*types.ChatSession
  touched  int
}

func newFakeSessionRepo() *fakeSessionRepo {
  return &fakeSessionRepo{sessions: make(map[uuid.UUID]*types.ChatSession)}
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, _ *gorm.DB, session *types.ChatSession) (*types.ChatSession, error) {
  session.ID = uuid.New()
  if session.Title == "" {
    session.Title = "New Chat"
  }
  f.sessions[session.ID] = session
  return session, nil
}

func (f *fakeSessionRepo) GetOwnedSession(_ context.Context, _ *gorm.DB, id, userID uuid.UUID) (*types.ChatSession, error) {
  session, ok := f.sessions[id]
  if !ok || session.UserID != userID {
    return nil, apperrors.ErrChatSessionNotFound
  }
  return session, nil
}

func (f *fakeSessionRepo) GetUserSessions(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.ChatSession, error) {
  var out []*types.ChatSession
  for _, s := range f.sessions {
    if s.UserID == userID {
      out = append(out, s)
    }
  }
  return out, nil
}

func (f *fakeSessionRepo) UpdateTitle(_ context.Context, _ *gorm.DB, id uuid.UUID, title string) (*types.ChatSession, error) {
  session, ok := f.sessions[id]
  if !ok {
    return nil, apperrors.ErrChatSessionNotFound
  }
  session.Title = title
  return session, nil
}

func (f *fakeSessionRepo) Touch(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
  f.touched++
  return nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
  delete(f.sessions, id)
  return nil
}

type fakeMessageRepo struct {
  messages []*types.ChatMessage
}

func (f *fakeMessageRepo) CreateMessages(_ context.Context, _ *gorm.DB, msgs []*types.ChatMessage) ([]*types.ChatMessage, error) {
  for _, m := range msgs {
    m.ID = uuid.New()
    f.messages = append(f.messages, m)
  }
  return msgs, nil
}

func (f *fakeMessageRepo) GetBySessionID(_ context.Context, _ *gorm.DB, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
  var out []*types.ChatMessage
  for _, m := range f.messages {
    if m.SessionID == sessionID {
      out = append(out, m)
    }
  }
  return out, nil
}

// fakeOllama records whether it was consulted and serves scripted output.
type fakeOllama struct {
  available bool
  reply     string
  fragments []string
  calls     int
}

func (f *fakeOllama) IsAvailable(_ context.Context) bool { return f.available }

func (f *fakeOllama) Generate(_ context.Context, _ string, _ []types.PromptMessage) string {
  f.calls++
  return f.reply
}

func (f *fakeOllama) GenerateStream(ctx context.Context, _ string, _ []types.PromptMessage) <-chan string {
  f.calls++
  out := make(chan string)
  go func() {
    defer close(out)
    for _, fragment := range f.fragments {
      select {
      case out <- fragment:
      case <-ctx.Done():
        return
      }
    }
  }()
  return out
}

type advisorFixture struct {
  svc         AdvisorService
  sessionRepo *fakeSessionRepo
  messageRepo *fakeMessageRepo
  ollama      *fakeOllama
  userID      uuid.UUID
  ctx         context.Context
}

func newAdvisorFixture(t *testing.T, ollama *fakeOllama, forceMock bool) *advisorFixture {
  t.Helper()
  log := testLogger(t)
  sessionRepo := newFakeSessionRepo()
  messageRepo := &fakeMessageRepo{}
  mock := NewMockAdvisorService(log)
  svc := NewAdvisorService(nil, log, sessionRepo, messageRepo, ollama, mock, forceMock)

  userID := uuid.New()
  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID: userID,
    Email:  "test@example.com",
  })
  return &advisorFixture{
    svc:         svc,
    sessionRepo: sessionRepo,
    messageRepo: messageRepo,
    ollama:      ollama,
    userID:      userID,
    ctx:         ctx,
  }
}

func (fx *advisorFixture) existingSession(t *testing.T) *types.ChatSession {
  t.Helper()
  session, err := fx.svc.StartNewSession(fx.ctx, "Existing")
  require.NoError(t, err)
  return session
}

func TestResolveSessionCreatesTitledSession(t *testing.T) {
  fx := newAdvisorFixture(t, &fakeOllama{}, true)

  session, err := fx.svc.ResolveSession(fx.ctx, uuid.Nil, "Short question")
  require.NoError(t, err)
  assert.Equal(t, "Short question", session.Title)
  assert.Equal(t, fx.userID, session.UserID)
}

func TestResolveSessionTruncatesLongTitle(t *testing.T) {
  fx := newAdvisorFixture(t, &fakeOllama{}, true)

  long := "This is a deliberately very long first message that goes well past fifty characters"
  session, err := fx.svc.ResolveSession(fx.ctx, uuid.Nil, long)
  require.NoError(t, err)
  assert.Len(t, []rune(session.Title), sessionTitleMaxRunes+3)
  assert.Equal(t, string([]rune(long)[:sessionTitleMaxRunes])+"...", session.Title)
}

func TestResolveSessionRejectsForeignSession(t *testing.T) {
  fx := newAdvisorFixture(t, &fakeOllama{}, true)
  foreign, err := fx.sessionRepo.CreateSession(fx.ctx, nil, &types.ChatSession{UserID: uuid.New(), Title: "Not yours"})
  require.NoError(t, err)

  _, err = fx.svc.ResolveSession(fx.ctx, foreign.ID, "hi")
  assert.ErrorIs(t, err, apperrors.ErrChatSessionNotFound)
  assert.Empty(t, fx.messageRepo.messages)
}

func TestSendMessagePersistsBothTurns(t *testing.T) {
  fx := newAdvisorFixture(t, &fakeOllama{available: true, reply: "Live answer"}, false)
  session := fx.existingSession(t)

  result, err := fx.svc.SendMessage(fx.ctx, session, "What is a TFSA?")
  require.NoError(t, err)
  assert.Equal(t, "What is a TFSA?", result.UserMessage.Content)
  assert.Equal(t, types.RoleUser, result.UserMessage.Role)
  assert.Equal(t, "Live answer", result.AssistantMessage.Content)
  assert.Equal(t, types.RoleAssistant, result.AssistantMessage.Role)

  stored, err := fx.messageRepo.GetBySessionID(fx.ctx, nil, session.ID)
  require.NoError(t, err)
  require.Len(t, stored, 2)
  assert.Equal(t, 1, fx.sessionRepo.touched)
}

func TestSendMessageForceMockNeverProbes(t *testing.T) {
  ollama := &fakeOllama{available: true, reply: "should not be used"}
  fx := newAdvisorFixture(t, ollama, true)
  session := fx.existingSession(t)

  result, err := fx.svc.SendMessage(fx.ctx, session, "What is a TFSA?")
  require.NoError(t, err)
  assert.Equal(t, mockReplyTFSA, result.AssistantMessage.Content)
  assert.Zero(t, ollama.calls)
}

func TestSendMessageFallsBackWhenUnavailable(t *testing.T) {
  ollama := &fakeOllama{available: false, reply: "unreachable"}
  fx := newAdvisorFixture(t, ollama, false)
  session := fx.existingSession(t)

  result, err := fx.svc.SendMessage(fx.ctx, session, "budget advice")
  require.NoError(t, err)
  assert.Equal(t, mockReplyBudget, result.AssistantMessage.Content)
  assert.Zero(t, ollama.calls)
}

func TestSendMessageStreamPersistsConcatenation(t *testing.T) {
  ollama := &fakeOllama{available: true, fragments: []string{"One ", "two ", "three."}}
  fx := newAdvisorFixture(t, ollama, false)
  session := fx.existingSession(t)

  var emitted []string
  result, err := fx.svc.SendMessageStream(fx.ctx, session, "count", func(fragment string) error {
    emitted = append(emitted, fragment)
    return nil
  })
  require.NoError(t, err)
  assert.Equal(t, []string{"One ", "two ", "three."}, emitted)
  assert.Equal(t, "One two three.", result.AssistantMessage.Content)

  stored, err := fx.messageRepo.GetBySessionID(fx.ctx, nil, session.ID)
  require.NoError(t, err)
  require.Len(t, stored, 2)
  assert.Equal(t, "One two three.", stored[1].Content)
}

func TestSendMessageStreamPersistsAfterEmitFailure(t *testing.T) {
  ollama := &fakeOllama{available: true, fragments: []string{"One ", "two ", "three."}}
  fx := newAdvisorFixture(t, ollama, false)
  session := fx.existingSession(t)

  emitErr := errors.New("client went away")
  calls := 0
  result, err := fx.svc.SendMessageStream(fx.ctx, session, "count", func(fragment string) error {
    calls++
    if calls > 1 {
      return emitErr
    }
    return nil
  })
  require.ErrorIs(t, err, emitErr)
  // Forwarding stops after the failure but the full reply is still kept.
  assert.Equal(t, 2, calls)
  require.NotNil(t, result)
  assert.Equal(t, "One two three.", result.AssistantMessage.Content)

  stored, storeErr := fx.messageRepo.GetBySessionID(fx.ctx, nil, session.ID)
  require.NoError(t, storeErr)
  require.Len(t, stored, 2)
  assert.Equal(t, "One two three.", stored[1].Content)
}

func TestSendMessageHistoryExcludesCurrentTurn(t *testing.T) {
  fx := newAdvisorFixture(t, &fakeOllama{}, true)
  session := fx.existingSession(t)

  _, err := fx.svc.SendMessage(fx.ctx, session, "first TFSA question")
  require.NoError(t, err)
  result, err := fx.svc.SendMessage(fx.ctx, session, "second rrsp question")
  require.NoError(t, err)
  assert.Equal(t, mockReplyRRSP, result.AssistantMessage.Content)

  stored, err := fx.messageRepo.GetBySessionID(fx.ctx, nil, session.ID)
  require.NoError(t, err)
  assert.Len(t, stored, 4)
}

func TestSessionLifecycle(t *testing.T) {
  fx := newAdvisorFixture(t, &fakeOllama{}, true)

  session, err := fx.svc.StartNewSession(fx.ctx, "Plans")
  require.NoError(t, err)

  sessions, err := fx.svc.GetUserSessions(fx.ctx)
  require.NoError(t, err)
  assert.Len(t, sessions, 1)

  updated, err := fx.svc.UpdateSessionTitle(fx.ctx, session.ID, "Retirement plans")
  require.NoError(t, err)
  assert.Equal(t, "Retirement plans", updated.Title)

  require.NoError(t, fx.svc.DeleteSession(fx.ctx, session.ID))
  _, _, err = fx.svc.GetSessionWithMessages(fx.ctx, session.ID)
  assert.ErrorIs(t, err, apperrors.ErrChatSessionNotFound)
}

func TestAdvisorRequiresRequestData(t *testing.T) {
  fx := newAdvisorFixture(t, &fakeOllama{}, true)
  _, err := fx.svc.StartNewSession(context.Background(), "no auth")
  assert.Error(t, err)
}
