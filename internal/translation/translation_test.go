package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"line-translator/internal/glossary"
	"line-translator/internal/llm"
	"line-translator/internal/textutil"
)

type completerFunc func(ctx context.Context, req llm.Request) (string, error)

func (f completerFunc) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f(ctx, req)
}

type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

// upper stands in for a model: it translates by upper-casing the text after
// the user-prompt prefix.
func upper(_ context.Context, req llm.Request) (string, error) {
	return strings.ToUpper(strings.TrimPrefix(req.User, "Translate to Ukrainian: ")), nil
}

func newController(c llm.Completer, sleeper *recordingSleeper) *Controller {
	tr := NewTranslator(c, NewPromptBuilder("Ukrainian"), Options{
		Model:       "test",
		Temperature: DefaultTemperature,
		ChunkPause:  DefaultChunkPause,
		Sleep:       sleeper.Sleep,
	})
	return NewController(tr, ControllerOptions{Sleep: sleeper.Sleep})
}

func TestControllerRateLimitBackoff(t *testing.T) {
	calls := 0
	stub := completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		if calls <= 2 {
			return "", &llm.StatusError{Code: 429, Message: "Too Many Requests"}
		}
		return "Привіт", nil
	})
	sleeper := &recordingSleeper{}

	got := newController(stub, sleeper).Translate(context.Background(), "Hello", nil)

	want := Outcome{Text: "Привіт", Attempts: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]time.Duration{5 * time.Second, 10 * time.Second}, sleeper.waits); diff != "" {
		t.Errorf("sleeps mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerExhausted(t *testing.T) {
	calls := 0
	stub := completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		return "", errors.New("connection reset by peer")
	})
	sleeper := &recordingSleeper{}

	got := newController(stub, sleeper).Translate(context.Background(), "Hello", nil)

	want := Outcome{Text: "[!] Hello", Fallback: true, Attempts: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if diff := cmp.Diff([]time.Duration{time.Second, 2 * time.Second}, sleeper.waits); diff != "" {
		t.Errorf("sleeps mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerContextOverflowTerminates(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("Lorem ipsum dolor sit amet. ", 8))
	var sizes []int
	stub := completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		sizes = append(sizes, textutil.Len(req.User))
		if textutil.Len(req.User) > 50 {
			return "", errors.New("This model's maximum context length is 50 tokens")
		}
		return strings.ToUpper(req.User), nil
	})
	sleeper := &recordingSleeper{}

	got := newController(stub, sleeper).Translate(context.Background(), text, nil)

	if got.Text == "" {
		t.Fatal("empty output")
	}
	if got.Fallback {
		t.Error("re-chunked output must not be marked as a fallback")
	}
	if len(sizes) > 20 {
		t.Fatalf("%d backend calls, recursion not bounded", len(sizes))
	}
	for _, n := range sizes[1:] {
		if n >= textutil.Len(text) {
			t.Errorf("chunk of %d runes is not smaller than the line", n)
		}
	}
}

func TestControllerOverflowBelowFloor(t *testing.T) {
	stub := completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "", errors.New("context_length_exceeded")
	})
	got := newController(stub, &recordingSleeper{}).Translate(context.Background(), "Short line", nil)
	want := Outcome{Text: "Short line", Fallback: true, Attempts: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stub := completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		cancel()
		return "", ctx.Err()
	})
	got := newController(stub, &recordingSleeper{}).Translate(ctx, "Hello", nil)
	if got.Text != "Hello" || !got.Fallback {
		t.Errorf("outcome = %+v, want unmarked original", got)
	}
}

func TestTranslateChunks(t *testing.T) {
	text := "First sentence here. Second one follows! Is this the third? Yes it is."
	sleeper := &recordingSleeper{}
	tr := NewTranslator(completerFunc(upper), NewPromptBuilder("Ukrainian"), Options{
		ChunkPause: DefaultChunkPause,
		Sleep:      sleeper.Sleep,
	})

	got := tr.TranslateChunks(context.Background(), text, 25)

	if want := strings.ToUpper(text); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	chunks := SplitChunks(text, 25)
	if len(sleeper.waits) != len(chunks)-1 {
		t.Errorf("%d pauses for %d chunks", len(sleeper.waits), len(chunks))
	}
}

func TestTranslateChunksPassThroughFailure(t *testing.T) {
	stub := completerFunc(func(ctx context.Context, req llm.Request) (string, error) {
		if strings.Contains(req.User, "broken") {
			return "", errors.New("bad gateway")
		}
		return strings.ToUpper(req.User), nil
	})
	tr := NewTranslator(stub, NewPromptBuilder("Ukrainian"), Options{})

	got := tr.TranslateChunks(context.Background(), "Good part. This one is broken. Fine again.", 20)
	if want := "GOOD PART. This one is broken. FINE AGAIN."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTranslateRejectsChat(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"chatty", "I understand. Please provide the text you want me to translate.", "Hi"},
		{"too short", "П", "Hi"},
		{"empty", "", "Hi"},
		{"fine", "Привіт", "Привіт"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := completerFunc(func(context.Context, llm.Request) (string, error) {
				return tt.reply, nil
			})
			tr := NewTranslator(stub, NewPromptBuilder("Ukrainian"), Options{})
			got, err := tr.Translate(context.Background(), "Hi", nil, DefaultMaxChars)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslateRequest(t *testing.T) {
	var got llm.Request
	stub := completerFunc(func(_ context.Context, req llm.Request) (string, error) {
		got = req
		return "Ваш квест", nil
	})
	tr := NewTranslator(stub, NewPromptBuilder("Ukrainian"), Options{
		Model:       "m",
		Temperature: 0.3,
		Terms:       glossary.Default(),
	})

	if _, err := tr.Translate(context.Background(), "Your quest {0}", []string{"{0}"}, DefaultMaxChars); err != nil {
		t.Fatal(err)
	}
	if got.User != "Translate to Ukrainian: Your quest {0}" {
		t.Errorf("user prompt = %q", got.User)
	}
	if got.MaxTokens != len("Your quest {0}")*3+100 {
		t.Errorf("max tokens = %d", got.MaxTokens)
	}
	if !strings.Contains(got.System, "quest → квест") {
		t.Errorf("system prompt lacks glossary term:\n%s", got.System)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{errors.New("Error code: 400 - context_length_exceeded"), ContextOverflow},
		{errors.New("Please reduce the length of the messages"), ContextOverflow},
		{&llm.StatusError{Code: 429, Message: "slow down"}, RateLimited},
		{errors.New("Rate limit reached for requests"), RateLimited},
		{fmt.Errorf("call: %w", context.Canceled), Fatal},
		{errors.New("EOF"), Transient},
		{&llm.StatusError{Code: 503, Message: "overloaded"}, Transient},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestSplitChunks(t *testing.T) {
	got := SplitChunks("One. Two! Three? Four.", 10)
	want := []string{"One. Two!", "Three?", "Four."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitChunks mismatch (-want +got):\n%s", diff)
	}

	long := "alpha beta gamma delta epsilon zeta eta theta"
	for _, c := range SplitChunks(long, 12) {
		if textutil.Len(c) > 12 {
			t.Errorf("chunk %q exceeds 12 runes", c)
		}
	}
	if got := strings.Join(SplitChunks(long, 12), " "); got != long {
		t.Errorf("rejoined %q", got)
	}
}

func TestSystemPromptPlaceholders(t *testing.T) {
	pb := NewPromptBuilder("Ukrainian")
	p := pb.SystemPrompt([]string{"{0}", "%d", "{0}"}, nil, []Reference{{Source: "Exit", Target: "Вийти"}})
	if !strings.Contains(p, "as they are: {0}, %d\n") {
		t.Errorf("placeholders not listed once each:\n%s", p)
	}
	if !strings.Contains(p, "Exit → Вийти") {
		t.Errorf("reference missing:\n%s", p)
	}
	if !strings.Contains(p, "quest→квест") {
		t.Errorf("house rules missing:\n%s", p)
	}
}
