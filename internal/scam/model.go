package scam

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Model kinds understood by Predict.
const (
	ModelLinear        = "linear"
	ModelMultinomialNB = "multinomial_nb"
)

// Model is an exported two-or-more class text classifier over TF-IDF rows.
//
// A linear model carries Coef/Intercept: one row for a binary problem
// (positive decision selects Classes[1]) or one row per class otherwise.
// A multinomial naive Bayes model carries ClassLogPrior/FeatureLogProb.
type Model struct {
	Type           string      `json:"type"`
	Classes        []string    `json:"classes"`
	Coef           [][]float64 `json:"coef,omitempty"`
	Intercept      []float64   `json:"intercept,omitempty"`
	ClassLogPrior  []float64   `json:"class_log_prior,omitempty"`
	FeatureLogProb [][]float64 `json:"feature_log_prob,omitempty"`
}

func (m *Model) validate(features int) error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("model: need at least two classes, got %d", len(m.Classes))
	}
	switch m.Type {
	case ModelLinear:
		rows := len(m.Classes)
		if rows == 2 {
			rows = 1
		}
		if len(m.Coef) != rows || len(m.Intercept) != rows {
			return fmt.Errorf("model: linear expects %d coef rows and intercepts, got %d/%d", rows, len(m.Coef), len(m.Intercept))
		}
		return checkWidths("coef", m.Coef, features)
	case ModelMultinomialNB:
		if len(m.ClassLogPrior) != len(m.Classes) || len(m.FeatureLogProb) != len(m.Classes) {
			return errors.New("model: naive bayes priors do not match classes")
		}
		return checkWidths("feature_log_prob", m.FeatureLogProb, features)
	default:
		return fmt.Errorf("model: unsupported type %q", m.Type)
	}
}

func checkWidths(name string, rows [][]float64, features int) error {
	for i, row := range rows {
		if len(row) != features {
			return fmt.Errorf("model: %s row %d has %d columns, vectorizer has %d", name, i, len(row), features)
		}
	}
	return nil
}

// Predict returns the class label for one TF-IDF row.
func (m *Model) Predict(row []float64) string {
	switch m.Type {
	case ModelMultinomialNB:
		scores := make([]float64, len(m.Classes))
		for c := range m.Classes {
			scores[c] = m.ClassLogPrior[c] + floats.Dot(row, m.FeatureLogProb[c])
		}
		return m.Classes[floats.MaxIdx(scores)]
	default:
		if len(m.Coef) == 1 {
			if floats.Dot(row, m.Coef[0])+m.Intercept[0] > 0 {
				return m.Classes[1]
			}
			return m.Classes[0]
		}
		scores := make([]float64, len(m.Coef))
		for c := range m.Coef {
			scores[c] = floats.Dot(row, m.Coef[c]) + m.Intercept[c]
		}
		return m.Classes[floats.MaxIdx(scores)]
	}
}
