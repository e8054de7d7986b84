package safety

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

type fakeModerator struct {
	result types.ModerationResult
	err    error
	calls  int
}

func (f *fakeModerator) Classify(_ context.Context, _ string) (types.ModerationResult, error) {
	f.calls++
	return f.result, f.err
}

func TestModerateNilProviderSkips(t *testing.T) {
	res := Moderate(context.Background(), nil, testLogger, "anything")
	if !res.Skipped {
		t.Error("nil provider must yield a skipped verdict")
	}
	if res.Flagged {
		t.Error("skipped moderation assumes safe")
	}
}

func TestModerateProviderErrorDegrades(t *testing.T) {
	mod := &fakeModerator{err: fmt.Errorf("classifier down")}
	res := Moderate(context.Background(), mod, testLogger, "text")
	if !res.Skipped || res.Flagged {
		t.Errorf("classifier failure must degrade to skipped, got %+v", res)
	}
}

func TestModerateDelegates(t *testing.T) {
	mod := &fakeModerator{result: types.ModerationResult{Flagged: true, Categories: []string{"hate"}}}
	res := Moderate(context.Background(), mod, testLogger, "text")
	if !res.Flagged || mod.calls != 1 {
		t.Errorf("verdict not delegated: %+v (calls=%d)", res, mod.calls)
	}
}

func TestPipelineCheckCleanContent(t *testing.T) {
	p := NewPipeline(nil, testLogger)
	report := p.Check(context.Background(), CheckInput{
		Content:    goodLetter(),
		SourceText: "Platform engineer. Built and shipped services for 40 teams at Initech, reduced deployment time by 35 percent.",
		Quality: QualityContext{
			JobTitle:       "Platform Engineer",
			CompanyName:    "Initech",
			JobDescription: "Platform engineer for deployment systems.",
		},
	})

	if len(report.PIIFindings) != 0 {
		t.Errorf("unexpected PII findings: %v", report.PIIFindings)
	}
	if !report.Moderation.Skipped {
		t.Error("no moderator configured, expected skipped")
	}
	if !report.IsReliable {
		t.Errorf("clean content should be reliable: %+v", report)
	}
	if !strings.Contains(report.Recommendation, "passed") {
		t.Errorf("expected a passing recommendation, got %q", report.Recommendation)
	}
}

func TestPipelineCheckFlaggedModeration(t *testing.T) {
	mod := &fakeModerator{result: types.ModerationResult{Flagged: true, Categories: []string{"harassment"}}}
	p := NewPipeline(mod, testLogger)
	report := p.Check(context.Background(), CheckInput{
		Content:    goodLetter(),
		SourceText: goodLetter(),
		Quality:    QualityContext{},
	})

	if report.IsReliable {
		t.Error("flagged content is never reliable")
	}
	if report.SafetyScore > 30 {
		t.Errorf("flagged moderation caps the safety score at 30, got %d", report.SafetyScore)
	}
	if !strings.Contains(report.Recommendation, "harassment") {
		t.Errorf("recommendation should name the category, got %q", report.Recommendation)
	}
	if report.Grade != "D" {
		t.Errorf("expected grade D, got %s", report.Grade)
	}
}

func TestPipelineCheckPIICapsScore(t *testing.T) {
	p := NewPipeline(nil, testLogger)
	report := p.Check(context.Background(), CheckInput{
		Content:    goodLetter() + "\nContact: jane@example.com",
		SourceText: goodLetter(),
		Quality:    QualityContext{},
	})

	if len(report.PIIFindings) == 0 {
		t.Fatal("expected an email finding")
	}
	if report.SafetyScore > 60 {
		t.Errorf("PII caps the safety score at 60, got %d", report.SafetyScore)
	}
	if report.IsReliable {
		t.Error("content with PII is not reliable")
	}
}

func TestPipelineCheckUnverifiedClaims(t *testing.T) {
	p := NewPipeline(nil, testLogger)
	report := p.Check(context.Background(), CheckInput{
		Content:    "Dear team,\n\nI mastered Kubernetes and Terraform at Globex Partners.\n\nSincerely, J",
		SourceText: "Resume mentions Go only.",
		Quality:    QualityContext{},
	})

	if report.Hallucination.UnverifiedCount == 0 {
		t.Fatal("expected unverified claims")
	}
	if report.IsReliable {
		t.Error("confidence below 60 must not be reliable")
	}
	if !strings.Contains(report.Recommendation, "unverified claim") {
		t.Errorf("recommendation should mention the claims, got %q", report.Recommendation)
	}
}
