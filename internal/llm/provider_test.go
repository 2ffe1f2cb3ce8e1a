package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aeriel/clai/internal/logger"
	"github.com/aeriel/clai/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `[{"lesson_title":"Tyres"}]`, Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		TextResponse("sorry, I can't help"),
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != `[{"lesson_title":"Tyres"}]` {
		t.Fatalf("unexpected text %q", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != "sorry, I can't help" {
		t.Fatalf("unexpected text %q", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		TextResponse("[]"),
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "slide-gen")
	if p := PurposeFrom(ctx); p != "slide-gen" {
		t.Fatalf("expected 'slide-gen', got %q", p)
	}
}

func TestTargetContext(t *testing.T) {
	ctx := context.Background()
	if got := TargetFrom(ctx); got != "" {
		t.Fatalf("expected empty target, got %q", got)
	}
	ctx = WithTarget(WithPurpose(ctx, "lesson-gen"), "course:42")
	if got := TargetFrom(ctx); got != "course:42" {
		t.Fatalf("expected course:42, got %q", got)
	}
	if p := PurposeFrom(ctx); p != "lesson-gen" {
		t.Fatalf("purpose lost, got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openrouter without key",
			cfg:     Config{Provider: "openrouter"},
			wantErr: true,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	mock := NewMockProvider(
		TextResponse("  [1, 2]\n"),
		MockResponse{Text: "[1,", StopReason: "max_tokens"},
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Text: "I can't help with that.", StopReason: "error"},
	)
	ctx := context.Background()

	text, err := Complete(ctx, mock, UserPrompt("sys", "go", 10))
	if err != nil || text != "[1, 2]" {
		t.Fatalf("got (%q, %v), want trimmed text", text, err)
	}

	text, err = Complete(ctx, mock, UserPrompt("sys", "go", 10))
	var maxErr *ErrMaxTokensExceeded
	if !errors.As(err, &maxErr) || text != "[1," {
		t.Fatalf("got (%q, %v), want truncation error", text, err)
	}

	if _, err := Complete(ctx, mock, UserPrompt("sys", "go", 10)); err == nil {
		t.Fatal("expected provider error")
	}

	var invalid *ErrInvalidResponse
	if _, err := Complete(ctx, mock, UserPrompt("sys", "go", 10)); !errors.As(err, &invalid) {
		t.Fatalf("got %v, want ErrInvalidResponse for a refused generation", err)
	}

	req, ok := mock.LastCall()
	if !ok || req.Messages[0].Content != "go" || req.MaxTokens != 10 {
		t.Fatalf("unexpected last call %+v", req)
	}
}

type recordingEventRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
}

func (r *recordingEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return nil
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := &recordingEventRepo{}
	mock := NewMockProvider(
		MockResponse{Text: "[]", Usage: Usage{InputTokens: 7, OutputTokens: 2}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	p := WithLogging(mock, repo, logger.Nop())

	ctx := WithPurpose(context.Background(), "lesson-gen")
	if _, err := p.Generate(ctx, UserPrompt("system text", "user text", 100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, UserPrompt("", "again", 100)); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok := repo.events[0]
	if !ok.Success || ok.Purpose != "lesson-gen" || ok.InputTokens != 7 || ok.ResponseBody != "[]" {
		t.Errorf("unexpected success event %+v", ok)
	}
	if ok.RequestBody != "[system]\nsystem text\n\n[user]\nuser text\n\n" {
		t.Errorf("unexpected request body %q", ok.RequestBody)
	}
	failed := repo.events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("unexpected failure event %+v", failed)
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if WithTimeout(slowProvider{}, 0).ModelID() != "slow" {
		t.Fatal("zero timeout should return the provider unchanged")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock, got %q", p.ModelID())
	}
	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil, nil); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CLAI_LLM_PROVIDER", "gemini")
	t.Setenv("CLAI_GEMINI_API_KEY", "g-key")
	t.Setenv("CLAI_LLM_TIMEOUT", "5s")
	t.Setenv("CLAI_LLM_MAX_TOKENS", "not-a-number")

	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.MaxTokens != DefaultConfig().MaxTokens {
		t.Errorf("invalid max tokens should keep the default, got %d", cfg.MaxTokens)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
