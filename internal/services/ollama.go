package services

import (
  "bufio"
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "net/http"
  "net/url"
  "strings"
  "time"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

const advisorSystemPrompt = `You are SmartAsset, a helpful AI financial advisor assistant. You help users with:
- Personal finance management and budgeting
- Understanding Canadian tax rules (TFSA, RRSP, FHSA contributions)
- Expense tracking and analysis
- Financial planning and investment basics
- Tax filing guidance for Canadians

Be friendly, clear, and provide actionable advice. When discussing financial matters,
remind users to consult with a certified financial advisor for personalized advice.
Always be accurate about Canadian tax rules and contribution limits.`

const (
  apologyTimeout = "I apologize, but the request timed out. Please try again."
  apologyStream  = "I apologize, but there was an error generating the response."
  apologyEmpty   = "I apologize, but I couldn't generate a response."
)

const (
  probeTimeout      = 5 * time.Second
  generationTimeout = 120 * time.Second
)

// OllamaService talks to an Ollama-compatible model server. The backend is
// treated as unreliable infrastructure: Generate degrades to the mock
// generator or a fixed apology instead of surfacing errors, and
// GenerateStream ends with a terminal apology fragment on failure.
type OllamaService interface {
  IsAvailable(ctx context.Context) bool
  Generate(ctx context.Context, message string, history []types.PromptMessage) string
  GenerateStream(ctx context.Context, message string, history []types.PromptMessage) <-chan string
}

type ollamaService struct {
  log          *logger.Logger
  baseURL      string
  model        string
  probeClient  *http.Client
  chatClient   *http.Client
  fallback     ReplyGenerator
}

func NewOllamaService(log *logger.Logger, baseURL, model string, fallback ReplyGenerator) OllamaService {
  return &ollamaService{
    log:         log.With("service", "OllamaService"),
    baseURL:     strings.TrimRight(baseURL, "/"),
    model:       model,
    probeClient: &http.Client{Timeout: probeTimeout},
    chatClient:  &http.Client{Timeout: generationTimeout},
    fallback:    fallback,
  }
}

type ollamaChatRequest struct {
  Model    string                `json:"model"`
  Messages []types.PromptMessage `json:"messages"`
  Stream   bool                  `json:"stream"`
}

type ollamaChatChunk struct {
  Message types.PromptMessage `json:"message"`
}

// IsAvailable probes the backend's tag listing with a short timeout. Any
// transport failure means unavailable; it never returns an error.
func (ol *ollamaService) IsAvailable(ctx context.Context) bool {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, ol.baseURL+"/api/tags", nil)
  if err != nil {
    return false
  }
  resp, err := ol.probeClient.Do(req)
  if err != nil {
    return false
  }
  defer resp.Body.Close()
  return resp.StatusCode == http.StatusOK
}

func (ol *ollamaService) buildMessages(message string, history []types.PromptMessage) []types.PromptMessage {
  messages := make([]types.PromptMessage, 0, len(history)+2)
  messages = append(messages, types.PromptMessage{Role: types.RoleSystem, Content: advisorSystemPrompt})
  messages = append(messages, history...)
  messages = append(messages, types.PromptMessage{Role: types.RoleUser, Content: message})
  return messages
}

// Generate issues one non-streaming chat request. A timeout yields a fixed
// apology; any other failure delegates to the mock fallback.
func (ol *ollamaService) Generate(ctx context.Context, message string, history []types.PromptMessage) string {
  payload, err := json.Marshal(ollamaChatRequest{
    Model:    ol.model,
    Messages: ol.buildMessages(message, history),
    Stream:   false,
  })
  if err != nil {
    ol.log.Error("failed to marshal chat request", "error", err)
    return ol.fallback.Generate(ctx, message, history)
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, ol.baseURL+"/api/chat", bytes.NewReader(payload))
  if err != nil {
    return ol.fallback.Generate(ctx, message, history)
  }
  req.Header.Set("Content-Type", "application/json")

  resp, err := ol.chatClient.Do(req)
  if err != nil {
    if isTimeout(err) {
      ol.log.Error("ollama request timed out")
      return apologyTimeout
    }
    ol.log.Error("ollama request failed, falling back to mock response", "error", err)
    return ol.fallback.Generate(ctx, message, history)
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    ol.log.Error("ollama responded with non-2xx, falling back to mock response", "statusCode", resp.StatusCode)
    return ol.fallback.Generate(ctx, message, history)
  }

  var chunk ollamaChatChunk
  if err := json.NewDecoder(resp.Body).Decode(&chunk); err != nil {
    ol.log.Error("failed to decode ollama response, falling back to mock response", "error", err)
    return ol.fallback.Generate(ctx, message, history)
  }
  if chunk.Message.Content == "" {
    return apologyEmpty
  }
  return chunk.Message.Content
}

// GenerateStream opens a streaming chat request and forwards content deltas
// in arrival order. Malformed lines are skipped. The returned channel is
// always closed; a failure yields one apology fragment and ends the stream.
func (ol *ollamaService) GenerateStream(ctx context.Context, message string, history []types.PromptMessage) <-chan string {
  out := make(chan string)
  go func() {
    defer close(out)

    payload, err := json.Marshal(ollamaChatRequest{
      Model:    ol.model,
      Messages: ol.buildMessages(message, history),
      Stream:   true,
    })
    if err != nil {
      ol.emit(ctx, out, apologyStream)
      return
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, ol.baseURL+"/api/chat", bytes.NewReader(payload))
    if err != nil {
      ol.emit(ctx, out, apologyStream)
      return
    }
    req.Header.Set("Content-Type", "application/json")

    resp, err := ol.chatClient.Do(req)
    if err != nil {
      ol.log.Error("ollama streaming request failed", "error", err)
      ol.emit(ctx, out, apologyStream)
      return
    }
    defer resp.Body.Close()

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
      ol.log.Error("ollama streaming responded with non-2xx", "statusCode", resp.StatusCode)
      ol.emit(ctx, out, apologyStream)
      return
    }

    scanner := bufio.NewScanner(resp.Body)
    scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
    for scanner.Scan() {
      line := bytes.TrimSpace(scanner.Bytes())
      if len(line) == 0 {
        continue
      }
      var chunk ollamaChatChunk
      if err := json.Unmarshal(line, &chunk); err != nil {
        continue
      }
      if chunk.Message.Content == "" {
        continue
      }
      if !ol.emit(ctx, out, chunk.Message.Content) {
        return
      }
    }
    if err := scanner.Err(); err != nil {
      ol.log.Error("ollama stream ended with error", "error", err)
      ol.emit(ctx, out, apologyStream)
    }
  }()
  return out
}

func (ol *ollamaService) emit(ctx context.Context, out chan<- string, fragment string) bool {
  select {
  case out <- fragment:
    return true
  case <-ctx.Done():
    return false
  }
}

func isTimeout(err error) bool {
  if errors.Is(err, context.DeadlineExceeded) {
    return true
  }
  var urlErr *url.Error
  if errors.As(err, &urlErr) && urlErr.Timeout() {
    return true
  }
  return false
}

var _ ReplyGenerator = (*ollamaService)(nil)
