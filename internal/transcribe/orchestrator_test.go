package transcribe_test

import (
	"context"
	"errors"
	"testing"

	"subgen/internal/logging"
	"subgen/internal/srt"
	"subgen/internal/transcribe"
)

type fakeEngine struct {
	calls    []string
	segments map[string][]srt.Segment
	failOn   string
}

func (f *fakeEngine) Transcribe(ctx context.Context, audioPath, lang string) ([]srt.Segment, error) {
	f.calls = append(f.calls, lang)
	if lang == f.failOn {
		return nil, errors.New("engine failure for " + lang)
	}
	return f.segments[lang], nil
}

func TestOrchestratorKeepsRequestOrder(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{segments: map[string][]srt.Segment{
		"en": {{Start: 0, End: 1, Text: "hello"}},
		"fr": {{Start: 0, End: 1, Text: "bonjour"}},
	}}
	orchestrator := transcribe.NewOrchestrator(engine, logging.NewNop())

	results, err := orchestrator.Run(context.Background(), "audio.wav", []string{"fr", "en", "fr"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	wantOrder := []string{"fr", "en", "fr"}
	for i, want := range wantOrder {
		if results[i].Language != want {
			t.Fatalf("result %d language = %q, want %q", i, results[i].Language, want)
		}
	}
	if results[0].Segments[0].Text != "bonjour" || results[1].Segments[0].Text != "hello" {
		t.Fatalf("segments routed to wrong language: %+v", results)
	}
}

func TestOrchestratorStopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{failOn: "fr", segments: map[string][]srt.Segment{
		"en": {{Start: 0, End: 1, Text: "hello"}},
	}}
	orchestrator := transcribe.NewOrchestrator(engine, logging.NewNop())

	_, err := orchestrator.Run(context.Background(), "audio.wav", []string{"en", "fr", "de"})
	if err == nil {
		t.Fatal("expected failure")
	}
	if len(engine.calls) != 2 {
		t.Fatalf("engine called %d times, want 2 (stop at first failure)", len(engine.calls))
	}
}

func TestOrchestratorHonorsCancellation(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{}
	orchestrator := transcribe.NewOrchestrator(engine, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := orchestrator.Run(ctx, "audio.wav", []string{"en"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(engine.calls) != 0 {
		t.Fatal("engine called on a dead context")
	}
}
