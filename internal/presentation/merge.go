package presentation

import (
	"math"
	"strings"

	"orato/internal/bodylang"
	"orato/internal/emotion"
	"orato/internal/speech"
)

const neutralEmotion = "neutral"

// BodyLanguage is the normalized body-language block of a Result.
type BodyLanguage struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Problems     []string `json:"problems_detected"`
	Improvements []string `json:"keys_to_improve"`
}

// SpeechAnalysis is the normalized speech block of a Result.
type SpeechAnalysis struct {
	Duration     int `json:"duration"`
	SpeakingRate int `json:"speaking_rate"`
	Volume       int `json:"volume"`
	Pitch        int `json:"pitch"`
}

// EmotionAnalysis is the normalized emotion block of a Result.
type EmotionAnalysis struct {
	Dominant string             `json:"dominant_emotion"`
	Emotions map[string]float64 `json:"emotions"`
}

// Result is the merged presentation verdict returned to clients.
type Result struct {
	OverallScore int             `json:"overall_score"`
	BodyScore    int             `json:"body_score"`
	SpeechScore  int             `json:"speech_score"`
	Emotion      string          `json:"emotion"`
	BodyLanguage BodyLanguage    `json:"body_language"`
	Speech       SpeechAnalysis  `json:"speech_analysis"`
	EmotionMix   EmotionAnalysis `json:"emotion_analysis"`
}

// Merge blends the three sub-reports into a bounded Result. It never fails:
// malformed or failed inputs degrade to zero or neutral values.
func Merge(conf bodylang.ConfidenceReport, sp speech.Report, emo emotion.Report) Result {
	body := normalizeBody(conf)
	speechScore := SpeechScore(sp)
	emotions := normalizeEmotion(emo)
	return Result{
		OverallScore: OverallScore(body.Score, speechScore),
		BodyScore:    body.Score,
		SpeechScore:  speechScore,
		Emotion:      emotions.Dominant,
		BodyLanguage: body,
		Speech:       normalizeSpeech(sp),
		EmotionMix:   emotions,
	}
}

// OverallScore is the equal-weight blend of the two sub-scores, rounded and
// clamped to [0,100].
func OverallScore(body, speechScore int) int {
	return Clamp(int(math.Round(0.5*float64(body)+0.5*float64(speechScore))), 0, 100)
}

// SpeechScore awards 50 points each for loud/clear volume and expressive
// pitch, 30 otherwise. A failed report therefore scores 60.
func SpeechScore(sp speech.Report) int {
	volume := strings.ToLower(sp.VolumeAnalysis)
	pitch := strings.ToLower(sp.PitchAnalysis)
	score := 30
	if strings.Contains(volume, "loud") || strings.Contains(volume, "clear") {
		score = 50
	}
	if strings.Contains(pitch, "expressive") {
		score += 50
	} else {
		score += 30
	}
	return Clamp(score, 0, 100)
}

func normalizeBody(conf bodylang.ConfidenceReport) BodyLanguage {
	score, _ := ParseScorePrefix(conf.Score)
	return BodyLanguage{
		Score:        score,
		Strengths:    nonNil(conf.Strengths),
		Problems:     nonNil(conf.Problems),
		Improvements: nonNil(conf.Improvements),
	}
}

func normalizeSpeech(sp speech.Report) SpeechAnalysis {
	if sp.Failed() {
		return SpeechAnalysis{}
	}
	rate, _ := ParseDigits(sp.SpeakingRate)
	return SpeechAnalysis{
		Duration:     int(sp.DurationSec),
		SpeakingRate: rate,
		Volume:       Clamp(int(sp.AvgVolume*5000), 0, 100),
		Pitch:        max(0, int(120+math.Min(sp.PitchStdDev, 80))),
	}
}

func normalizeEmotion(emo emotion.Report) EmotionAnalysis {
	out := EmotionAnalysis{Dominant: neutralEmotion, Emotions: map[string]float64{}}
	if emo.Failed() {
		return out
	}
	if d := strings.ToLower(strings.TrimSpace(emo.Dominant)); d != "" {
		out.Dominant = d
	}
	total := 0.0
	for _, c := range emo.Counts {
		total += float64(c)
	}
	if total == 0 {
		total = 1
	}
	for label, c := range emo.Counts {
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			continue
		}
		out.Emotions[key] += float64(c) / total
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
