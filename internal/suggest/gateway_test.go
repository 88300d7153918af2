package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGateway(t *testing.T, serverURL, models string) *InferenceGateway {
	t.Helper()
	t.Setenv("HUGGINGFACE_API_KEY", "hf_test")
	t.Setenv("INFERENCE_BASE_URL", serverURL)
	t.Setenv("SUGGEST_MODELS", models)
	return NewInferenceGateway(testLogger())
}

func TestGateway_NoAPIKey(t *testing.T) {
	t.Setenv("HUGGINGFACE_API_KEY", "")
	gw := NewInferenceGateway(testLogger())
	if _, err := gw.Generate(context.Background(), "prompt", ModeDefaultPlan); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("got %v, want ErrNoAPIKey", err)
	}
}

func TestGateway_FallsThroughToNextModel(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"generated_text":"Review your notes after every study session to reinforce learning."}]`))
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, "org/broken-model, org/working-model")
	text, err := gw.Generate(context.Background(), "prompt", ModeDefaultPlan)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(text, "Review your notes") {
		t.Fatalf("unexpected text: %q", text)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %v, want broken then working", calls)
	}
	if !strings.HasSuffix(calls[0], "/models/org/broken-model") || !strings.HasSuffix(calls[1], "/models/org/working-model") {
		t.Fatalf("unexpected call order: %v", calls)
	}
}

func TestGateway_TemperatureFromEnv(t *testing.T) {
	var body struct {
		Parameters generateParams `json:"parameters"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`[{"generated_text":"Review your notes after every study session to reinforce learning."}]`))
	}))
	defer srv.Close()

	t.Setenv("SUGGEST_TEMPERATURE", "1.3")
	gw := newTestGateway(t, srv.URL, "org/model")
	if _, err := gw.Generate(context.Background(), "prompt", ModeDefaultPlan); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if body.Parameters.Temperature != 1.3 {
		t.Fatalf("temperature = %v, want 1.3", body.Parameters.Temperature)
	}

	t.Setenv("SUGGEST_TEMPERATURE", "9")
	gw = newTestGateway(t, srv.URL, "org/model")
	if gw.temperature != 0.7 {
		t.Fatalf("out-of-range temperature not defaulted: %v", gw.temperature)
	}
}

func TestGateway_AllModelsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, "a/one,b/two")
	if _, err := gw.Generate(context.Background(), "prompt", ModeDefaultPlan); !errors.Is(err, ErrAllModelsFailed) {
		t.Fatalf("got %v, want ErrAllModelsFailed", err)
	}
}

func TestGateway_ResponseShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"array", `[{"generated_text":"Practice recall daily to study better."}]`, "Practice recall daily"},
		{"bare string", `"Practice recall daily to study better."`, "Practice recall daily"},
		{"object", `{"generated_text":"Practice recall daily to study better."}`, "Practice recall daily"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			gw := newTestGateway(t, srv.URL, "org/model")
			text, err := gw.Generate(context.Background(), "prompt", ModeDefaultPlan)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if !strings.Contains(text, tc.want) {
				t.Fatalf("text = %q", text)
			}
		})
	}
}

func TestGateway_RejectsShortAndPromotional(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"too short", `[{"generated_text":"ok"}]`},
		{"promotional", `[{"generated_text":"Click here to subscribe to our amazing study newsletter today."}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			gw := newTestGateway(t, srv.URL, "org/model")
			if _, err := gw.Generate(context.Background(), "prompt", ModeDefaultPlan); !errors.Is(err, ErrAllModelsFailed) {
				t.Fatalf("got %v, want ErrAllModelsFailed", err)
			}
		})
	}
}

func TestGateway_StudyTipKeywordFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text":"The weather tomorrow will be sunny with light winds in the afternoon."}]`))
	}))
	defer srv.Close()

	gw := newTestGateway(t, srv.URL, "org/model")
	if _, err := gw.Generate(context.Background(), "prompt", ModeStudyTip); !errors.Is(err, ErrAllModelsFailed) {
		t.Fatalf("got %v, want ErrAllModelsFailed for off-topic tip", err)
	}
	if _, err := gw.Generate(context.Background(), "prompt", ModeDefaultPlan); err != nil {
		t.Fatalf("keyword filter must only apply to study tips: %v", err)
	}
}

func TestFilterCandidate_StripsBoilerplateAndTruncates(t *testing.T) {
	in := "As an AI language model, Review notes daily. Space your practice. Test yourself often. Fourth sentence should go."
	got, err := filterCandidate(in, ModeDefaultPlan)
	if err != nil {
		t.Fatalf("filterCandidate: %v", err)
	}
	if strings.Contains(got, "As an AI language model") {
		t.Fatalf("boilerplate survived: %q", got)
	}
	if strings.Contains(got, "Fourth sentence") {
		t.Fatalf("not truncated to three sentences: %q", got)
	}
	if !strings.HasPrefix(got, "Review notes daily.") {
		t.Fatalf("unexpected start: %q", got)
	}
}
