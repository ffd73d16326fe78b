package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sheetmind/sheetmind/internal/ai"
	"github.com/sheetmind/sheetmind/internal/analyst"
	"github.com/sheetmind/sheetmind/internal/dataset"
	"github.com/sheetmind/sheetmind/internal/session"
)

type recordingProvider struct {
	last  []ai.Message
	reply string
	err   error
}

func (p *recordingProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	// copy to avoid mutations
	p.last = append([]ai.Message(nil), messages...)
	if p.err != nil {
		return "", p.err
	}
	if p.reply == "" {
		return "ok", nil
	}
	return p.reply, nil
}

type streamingProvider struct {
	recordingProvider
	chunks []string
}

func (p *streamingProvider) StreamChat(ctx context.Context, messages []ai.Message) (<-chan string, <-chan error) {
	_ = ctx
	p.last = append([]ai.Message(nil), messages...)
	out := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		if p.err != nil {
			errs <- p.err
			return
		}
		for _, c := range p.chunks {
			out <- c
		}
	}()
	return out, errs
}

func newTestService(t *testing.T, prov ai.Provider) (*Service, *session.Store) {
	t.Helper()
	reg := ai.NewRegistry()
	reg.Register("fake", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		_ = model
		return prov, nil
	})
	store := session.NewStore()
	return NewService(store, reg, "fake", "default", 6, zap.NewNop()), store
}

func salesSession(t *testing.T, store *session.Store) *session.Session {
	t.Helper()
	d := dataset.FromRows(
		[]string{"region", "ventas"},
		[][]string{{"A", "10"}, {"A", "20"}, {"B", "5"}},
	)
	sess, err := store.Create(d, d.Columns)
	require.NoError(t, err)
	return sess
}

func TestAsk_AnswersAndLogs(t *testing.T) {
	prov := &recordingProvider{reply: "respuesta"}
	svc, store := newTestService(t, prov)
	sess := salesSession(t, store)

	ans, err := svc.Ask(context.Background(), sess.ID, "¿cuál es el total de ventas?")
	require.NoError(t, err)

	assert.Equal(t, sess.ID, ans.Session.ID)
	assert.Equal(t, "respuesta", ans.Result.AIResponse)
	assert.Equal(t, analyst.TypeMetric, ans.Result.Type)
	assert.Equal(t, 3, ans.Result.Calculations["totalRegistros"])

	// question and response both logged
	entries := sess.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, session.EntryQuestion, entries[0].Type)
	assert.Equal(t, session.EntryResponse, entries[1].Type)

	// the prompt carried the dataset shape and the question
	require.Len(t, prov.last, 1)
	assert.Contains(t, prov.last[0].Content, "region, ventas")
	assert.Contains(t, prov.last[0].Content, "¿cuál es el total de ventas?")
}

func TestAsk_BlankQuestion(t *testing.T) {
	svc, store := newTestService(t, &recordingProvider{})
	salesSession(t, store)

	_, err := svc.Ask(context.Background(), "", "   ")
	assert.ErrorIs(t, err, ErrQuestionRequired)
}

func TestAsk_UnknownSession(t *testing.T) {
	svc, _ := newTestService(t, &recordingProvider{})

	_, err := svc.Ask(context.Background(), "01UNKNOWN0000000000000000000", "hola")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAsk_NoActiveSession(t *testing.T) {
	svc, _ := newTestService(t, &recordingProvider{})

	// empty id falls back to the most recent session; there is none
	_, err := svc.Ask(context.Background(), "", "hola")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestAsk_FallsBackToMostRecentSession(t *testing.T) {
	prov := &recordingProvider{}
	svc, store := newTestService(t, prov)
	sess := salesSession(t, store)

	ans, err := svc.Ask(context.Background(), "", "hola")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, ans.Session.ID)
}

func TestAsk_ProviderFailureKeepsQuestion(t *testing.T) {
	prov := &recordingProvider{err: errors.New("boom")}
	svc, store := newTestService(t, prov)
	sess := salesSession(t, store)

	_, err := svc.Ask(context.Background(), sess.ID, "hola")
	require.Error(t, err)

	// the question stays in history even though no response was logged
	entries := sess.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, session.EntryQuestion, entries[0].Type)
	assert.Equal(t, "hola", entries[0].Content)
}

func TestAsk_ContextWindowFeedsPrompt(t *testing.T) {
	prov := &recordingProvider{}
	svc, store := newTestService(t, prov)
	sess := salesSession(t, store)

	for i := 0; i < 4; i++ {
		_, err := svc.Ask(context.Background(), sess.ID, "pregunta")
		require.NoError(t, err)
	}

	// the last prompt saw earlier turns in its history block
	require.NotEmpty(t, prov.last)
	assert.Contains(t, prov.last[0].Content, "question: pregunta")
	assert.Contains(t, prov.last[0].Content, "response:")
}

func TestAskStream_CollectsChunksAndResult(t *testing.T) {
	prov := &streamingProvider{chunks: []string{"hola ", "mundo"}}
	svc, store := newTestService(t, prov)
	sess := salesSession(t, store)

	chunks, result, errs := svc.AskStream(context.Background(), sess.ID, "muestra la distribución por region")

	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	assert.Equal(t, "hola mundo", b.String())

	ans, ok := <-result
	require.True(t, ok)
	assert.Equal(t, "hola mundo", ans.Result.AIResponse)
	assert.Equal(t, analyst.TypeChart, ans.Result.Type)
	require.NotNil(t, ans.Result.ChartData)

	if err, ok := <-errs; ok && err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}

	assert.Equal(t, 2, sess.Len())
}

func TestAskStream_ProviderError(t *testing.T) {
	prov := &streamingProvider{}
	prov.err = errors.New("boom")
	svc, store := newTestService(t, prov)
	sess := salesSession(t, store)

	chunks, result, errs := svc.AskStream(context.Background(), sess.ID, "hola")

	for range chunks {
	}
	if _, ok := <-result; ok {
		t.Fatal("expected no result on provider error")
	}
	err := <-errs
	require.Error(t, err)

	// question logged, response not
	assert.Equal(t, 1, sess.Len())
}

// firehoseProvider streams far more chunks than the forwarding buffer
// holds, stopping only on context cancellation.
type firehoseProvider struct {
	recordingProvider
}

func (p *firehoseProvider) StreamChat(ctx context.Context, messages []ai.Message) (<-chan string, <-chan error) {
	_ = messages
	out := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for i := 0; i < 200; i++ {
			select {
			case out <- "x":
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errs
}

func TestAskStream_ReaderGoneUnblocksService(t *testing.T) {
	svc, store := newTestService(t, &firehoseProvider{})
	sess := salesSession(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	chunks, result, errs := svc.AskStream(ctx, sess.ID, "hola")

	// consume one chunk, then walk away like a disconnected client
	<-chunks
	cancel()

	// the service side must close all channels instead of blocking on
	// the full chunk buffer
	deadline := time.After(2 * time.Second)
	for chunks != nil || result != nil || errs != nil {
		select {
		case <-deadline:
			t.Fatal("stream channels still open after cancel")
		case _, ok := <-chunks:
			if !ok {
				chunks = nil
			}
		case _, ok := <-result:
			if !ok {
				result = nil
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
			} else {
				assert.ErrorIs(t, err, context.Canceled)
			}
		}
	}
}

func TestStrategicReport(t *testing.T) {
	prov := &recordingProvider{reply: "**RESUMEN EJECUTIVO**\ncuerpo"}
	svc, store := newTestService(t, prov)
	sess := salesSession(t, store)

	rep, err := svc.StrategicReport(context.Background(), sess.ID)
	require.NoError(t, err)

	assert.Equal(t, "**RESUMEN EJECUTIVO**\ncuerpo", rep.Body)
	assert.Equal(t, 3, rep.Analysis.TotalRecords)
	assert.Contains(t, rep.Analysis.Metrics, "ventas")

	// the prompt carried the precomputed metrics and distributions
	require.Len(t, prov.last, 1)
	assert.Contains(t, prov.last[0].Content, "ventas")
	assert.Contains(t, prov.last[0].Content, "region")
}
