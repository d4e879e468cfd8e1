package service

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/remaimber-it/examprep/internal/adaptive"
)

func TestExamService_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)

	h := newHarness(mechanicsBank(3)...)
	out, err := h.svc.StartSession(context.Background(), startReq(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	answer(t, h, out, true)

	_, err = h.svc.SubmitAnswer(context.Background(), "u1", out.Session.ID, AnswerRequest{
		QuestionID:  out.Next.ID,
		ChosenIndex: 0,
	})
	if !errors.Is(err, adaptive.ErrDuplicateAnswer) {
		t.Fatalf("expected duplicate answer, got %v", err)
	}

	spans := map[string][]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = append(spans[s.Name()], s)
	}
	if len(spans["ExamService.StartSession"]) != 1 {
		t.Errorf("expected one start span, got %d", len(spans["ExamService.StartSession"]))
	}
	submits := spans["ExamService.SubmitAnswer"]
	if len(submits) != 2 {
		t.Fatalf("expected two submit spans, got %d", len(submits))
	}
	if submits[0].Status().Code == codes.Error {
		t.Error("first submit should not be marked as an error")
	}
	if submits[1].Status().Code != codes.Error {
		t.Error("duplicate submit should be marked as an error")
	}
}
