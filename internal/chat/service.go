// Package chat orchestrates a question's full round trip: resolve the
// session, render the analysis prompt, call the language model and
// merge its prose with the deterministic engines' output.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sheetmind/sheetmind/internal/ai"
	"github.com/sheetmind/sheetmind/internal/analyst"
	"github.com/sheetmind/sheetmind/internal/dataset"
	"github.com/sheetmind/sheetmind/internal/session"
)

var (
	// ErrQuestionRequired rejects blank questions before any session
	// or provider work happens.
	ErrQuestionRequired = errors.New("chat: question is required")
	// ErrNoActiveSession means no session id was given and no live
	// session exists to fall back on.
	ErrNoActiveSession = errors.New("chat: no active session")
)

// DefaultContextWindow is how many recent conversation entries feed
// the prompt when no override is configured.
const DefaultContextWindow = 6

const sampleSize = 5

// Service wires the session store, the analysis engines and the model
// registry into the question-answering flow.
type Service struct {
	store         *session.Store
	registry      *ai.Registry
	provider      string
	model         string
	contextWindow int
	policy        dataset.MetricPolicy
	now           func() time.Time
	log           *zap.Logger
}

func NewService(store *session.Store, registry *ai.Registry, provider, model string, contextWindow int, log *zap.Logger) *Service {
	if contextWindow <= 0 || contextWindow > 100 {
		contextWindow = DefaultContextWindow
	}
	return &Service{
		store:         store,
		registry:      registry,
		provider:      provider,
		model:         model,
		contextWindow: contextWindow,
		policy:        dataset.DefaultMetricPolicy(),
		now:           time.Now,
		log:           log,
	}
}

// Answer is one resolved question: the session it ran against and the
// combined analysis result.
type Answer struct {
	Session *session.Session
	Result  analyst.Result
}

// Resolve finds the session for a request: by id when one is given,
// otherwise the most recently created live session.
func (s *Service) Resolve(id string) (*session.Session, error) {
	if id != "" {
		return s.store.Get(id)
	}
	sess, err := s.store.MostRecentActive()
	if err != nil {
		return nil, ErrNoActiveSession
	}
	return sess, nil
}

// Ask answers one question against a session. The question is logged
// before the provider call, so a provider failure still leaves the
// question in the conversation history.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	// 1) resolve the session
	sess, err := s.Resolve(sessionID)
	if err != nil {
		return nil, err
	}

	// 2) log the question before anything can fail
	sess.Append(session.EntryQuestion, question, s.now())

	// 3) render the prompt from dataset + recent history
	prompt, err := s.analysisPrompt(sess, question)
	if err != nil {
		return nil, err
	}

	// 4) call the model
	provider, err := s.registry.Get(ctx, s.provider, s.model)
	if err != nil {
		return nil, err
	}
	reply, err := provider.Chat(ctx, ai.UserPrompt(prompt))
	if err != nil {
		s.log.Warn("provider call failed",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return nil, fmt.Errorf("chat: provider: %w", err)
	}

	// 5) merge prose with deterministic calculations and log the result
	result := analyst.BuildResponse(reply, question, sess.Data, s.policy)
	sess.Append(session.EntryResponse, result, s.now())

	return &Answer{Session: sess, Result: result}, nil
}

// AskStream answers one question streaming the model's prose chunk by
// chunk. The final merged result arrives on the result channel after
// the chunk channel closes; at most one error is sent on errs.
func (s *Service) AskStream(ctx context.Context, sessionID, question string) (chunks <-chan string, result <-chan *Answer, errs <-chan error) {
	outChunks := make(chan string, 16)
	outResult := make(chan *Answer, 1)
	outErrs := make(chan error, 1)

	go func() {
		defer close(outChunks)
		defer close(outResult)
		defer close(outErrs)

		question := strings.TrimSpace(question)
		if question == "" {
			outErrs <- ErrQuestionRequired
			return
		}

		// 1) resolve session, log question
		sess, err := s.Resolve(sessionID)
		if err != nil {
			outErrs <- err
			return
		}
		sess.Append(session.EntryQuestion, question, s.now())

		prompt, err := s.analysisPrompt(sess, question)
		if err != nil {
			outErrs <- err
			return
		}

		provider, err := s.registry.Get(ctx, s.provider, s.model)
		if err != nil {
			outErrs <- err
			return
		}
		sp, ok := provider.(ai.StreamProvider)
		if !ok {
			outErrs <- errors.New("chat: provider does not support streaming")
			return
		}

		// 2) stream prose
		pChunks, pErrs := sp.StreamChat(ctx, ai.UserPrompt(prompt))

		// a reader that stops consuming (client disconnect) must not
		// pin this goroutine on a full chunk buffer
		var b strings.Builder
		for c := range pChunks {
			b.WriteString(c)
			select {
			case outChunks <- c:
			case <-ctx.Done():
				outErrs <- ctx.Err()
				return
			}
		}

		select {
		case err := <-pErrs:
			if err != nil {
				outErrs <- fmt.Errorf("chat: provider: %w", err)
				return
			}
		default:
		}

		// 3) merge and log the full result once streaming completes
		res := analyst.BuildResponse(b.String(), question, sess.Data, s.policy)
		sess.Append(session.EntryResponse, res, s.now())
		outResult <- &Answer{Session: sess, Result: res}
	}()

	return outChunks, outResult, outErrs
}

// Report asks the model for a strategic summary of the dataset and
// returns it alongside the comprehensive analysis, as a JSON-friendly
// pair.
type Report struct {
	Session  *session.Session
	Body     string
	Analysis analyst.ComprehensiveAnalysis
}

// StrategicReport runs the full-dataset analysis and asks the model
// for the strategic report body it feeds the Word document.
func (s *Service) StrategicReport(ctx context.Context, sessionID string) (*Report, error) {
	sess, err := s.Resolve(sessionID)
	if err != nil {
		return nil, err
	}

	comp := analyst.Comprehend(sess.Data)

	prompt, err := reportPrompt(sess, comp)
	if err != nil {
		return nil, err
	}

	provider, err := s.registry.Get(ctx, s.provider, s.model)
	if err != nil {
		return nil, err
	}
	body, err := provider.Chat(ctx, ai.UserPrompt(prompt))
	if err != nil {
		s.log.Warn("report generation failed",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return nil, fmt.Errorf("chat: provider: %w", err)
	}

	return &Report{Session: sess, Body: body, Analysis: comp}, nil
}

func (s *Service) analysisPrompt(sess *session.Session, question string) (string, error) {
	sample, err := json.Marshal(sess.Data.Sample(sampleSize))
	if err != nil {
		return "", fmt.Errorf("chat: marshal sample: %w", err)
	}
	return ai.RenderAnalysisPrompt(ai.AnalysisPromptData{
		Columns:             strings.Join(sess.Columns, ", "),
		TotalRows:           sess.Data.Len(),
		SampleData:          string(sample),
		Question:            question,
		ConversationHistory: sess.RecentContext(s.contextWindow),
	})
}

func reportPrompt(sess *session.Session, comp analyst.ComprehensiveAnalysis) (string, error) {
	sample, err := json.Marshal(sess.Data.Sample(sampleSize))
	if err != nil {
		return "", fmt.Errorf("chat: marshal sample: %w", err)
	}
	dists, err := json.Marshal(comp.Distributions)
	if err != nil {
		return "", fmt.Errorf("chat: marshal distributions: %w", err)
	}
	metrics, err := json.Marshal(comp.Metrics)
	if err != nil {
		return "", fmt.Errorf("chat: marshal metrics: %w", err)
	}
	return ai.RenderReportPrompt(ai.ReportPromptData{
		TotalRows:     sess.Data.Len(),
		Columns:       strings.Join(sess.Columns, ", "),
		SampleData:    string(sample),
		Distributions: string(dists),
		Metrics:       string(metrics),
	})
}
