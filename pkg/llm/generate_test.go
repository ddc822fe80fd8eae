package llm

import (
	"context"
	"errors"
	"testing"
)

type staticGenerator struct {
	text string
	err  error
}

func (g *staticGenerator) String() string    { return "static" }
func (g *staticGenerator) IsAvailable() bool { return true }

func (g *staticGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.text, g.err
}

func TestGenerateFieldContent(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		err      error
		expected string
		wantErr  error
	}{
		{
			name:     "Trims whitespace",
			text:     "  the dog \n",
			expected: "the dog",
		},
		{
			name:    "Blank response is an error",
			text:    "   \n\t",
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "Provider error passes through",
			err:     errors.New("boom"),
			wantErr: nil, // any non-nil error
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := &staticGenerator{text: tc.text, err: tc.err}

			result, err := GenerateFieldContent(context.Background(), g, "prompt")
			if tc.err != nil {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestIsAuthError(t *testing.T) {
	if IsAuthError(nil) {
		t.Error("nil is not an auth error")
	}
	if !IsAuthError(ErrAuth) {
		t.Error("ErrAuth must be an auth error")
	}
	wrapped := errors.Join(errors.New("key rejected"), ErrAuth)
	if !IsAuthError(wrapped) {
		t.Error("Wrapped ErrAuth must be an auth error")
	}
	if IsAuthError(errors.New("boom")) {
		t.Error("Generic error is not an auth error")
	}
}

func TestIsTimeoutError(t *testing.T) {
	if !IsTimeoutError(context.DeadlineExceeded) {
		t.Error("DeadlineExceeded must be a timeout")
	}
	if IsTimeoutError(context.Canceled) {
		t.Error("Canceled is not a timeout")
	}
	if IsTimeoutError(nil) {
		t.Error("nil is not a timeout")
	}
}
