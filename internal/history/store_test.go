package history_test

import (
	"context"
	"testing"

	"orato/internal/history"
	"orato/internal/presentation"
	"orato/internal/scam"
	"orato/internal/testsupport"
)

func verdict(message, final, rule string, risk int) scam.Verdict {
	return scam.Verdict{
		Message:     message,
		ML:          scam.LabelSpam,
		Generative:  scam.LabelHam,
		Final:       final,
		Rule:        rule,
		Patterns:    scam.Patterns{HasURL: risk > 0},
		RiskScore:   risk,
		ContentType: scam.ContentText,
	}
}

func TestVerdictRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	for _, v := range []scam.Verdict{
		verdict("first", scam.LabelSpam, scam.RulePatternCount, 3),
		verdict("second", scam.LabelHam, scam.RuleGenerativeWins, 1),
		verdict("third", scam.LabelSpam, scam.RuleAgreement, 0),
	} {
		if err := store.RecordVerdict(ctx, v); err != nil {
			t.Fatalf("RecordVerdict: %v", err)
		}
	}

	recent, err := store.RecentVerdicts(ctx, 2)
	if err != nil {
		t.Fatalf("RecentVerdicts: %v", err)
	}
	if len(recent) != 2 || recent[0].Message != "third" || recent[1].Message != "second" {
		t.Fatalf("expected newest first, got %+v", recent)
	}
	if !recent[1].Patterns.HasURL || recent[1].CreatedAt.IsZero() {
		t.Fatalf("expected patterns and timestamp restored, got %+v", recent[1])
	}

	stats, err := store.VerdictStats(ctx)
	if err != nil {
		t.Fatalf("VerdictStats: %v", err)
	}
	if stats.Total != 3 || stats.Spam != 2 || stats.Ham != 1 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.ByRule[scam.RuleAgreement] != 1 || stats.ByContent[scam.ContentText] != 3 {
		t.Fatalf("unexpected groupings %+v", stats)
	}
	if stats.AvgRisk < 1.33 || stats.AvgRisk > 1.34 {
		t.Fatalf("unexpected average risk %f", stats.AvgRisk)
	}

	removed, err := store.ClearVerdicts(ctx)
	if err != nil || removed != 3 {
		t.Fatalf("ClearVerdicts = %d, %v", removed, err)
	}
	if recent, _ := store.RecentVerdicts(ctx, 10); len(recent) != 0 {
		t.Fatalf("expected empty history, got %d", len(recent))
	}
}

func TestEmptyStats(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	stats, err := store.VerdictStats(context.Background())
	if err != nil {
		t.Fatalf("VerdictStats: %v", err)
	}
	if stats.Total != 0 || stats.AvgRisk != 0 || stats.ByRule == nil {
		t.Fatalf("unexpected empty stats %+v", stats)
	}
}

func TestPresentationRoundTrip(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	result := presentation.Result{
		OverallScore: 76,
		BodyScore:    71,
		SpeechScore:  80,
		Emotion:      "happy",
		EmotionMix:   presentation.EmotionAnalysis{Dominant: "happy", Emotions: map[string]float64{"happy": 1}},
	}
	if err := store.RecordPresentation(ctx, "talk.mp4", result); err != nil {
		t.Fatalf("RecordPresentation: %v", err)
	}
	got, err := store.RecentPresentations(ctx, 5)
	if err != nil {
		t.Fatalf("RecentPresentations: %v", err)
	}
	if len(got) != 1 || got[0].FileName != "talk.mp4" || got[0].Result.OverallScore != 76 || got[0].Result.EmotionMix.Emotions["happy"] != 1 {
		t.Fatalf("unexpected presentations %+v", got)
	}
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.RecordVerdict(context.Background(), verdict("kept", scam.LabelHam, scam.RuleAgreement, 0)); err != nil {
		t.Fatalf("RecordVerdict: %v", err)
	}
	first.Close()

	second := testsupport.MustOpenHistory(t, cfg)
	recent, err := second.RecentVerdicts(context.Background(), 10)
	if err != nil || len(recent) != 1 {
		t.Fatalf("expected persisted verdict after reopen, got %d (%v)", len(recent), err)
	}
}

func TestNilStoreIsDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	store, err := history.OpenFromConfig(cfg)
	if err != nil || store != nil {
		t.Fatalf("expected nil store when disabled, got %v, %v", store, err)
	}
	ctx := context.Background()
	if err := store.RecordVerdict(ctx, verdict("x", scam.LabelHam, scam.RuleAgreement, 0)); err != nil {
		t.Fatalf("nil RecordVerdict: %v", err)
	}
	if got, err := store.RecentVerdicts(ctx, 5); err != nil || len(got) != 0 {
		t.Fatalf("nil RecentVerdicts = %v, %v", got, err)
	}
	if _, err := store.VerdictStats(ctx); err != nil {
		t.Fatalf("nil VerdictStats: %v", err)
	}
}
