package scam

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"orato/internal/config"
)

// Artifacts lazily loads the vectorizer and model from the first directory
// that holds them. A successful load is kept for the life of the process;
// a failed one is retried on the next call.
type Artifacts struct {
	modelFile      string
	vectorizerFile string
	dirs           []string

	mu         sync.Mutex
	vectorizer *Vectorizer
	model      *Model
}

// NewArtifacts probes dirs (in order) for the two artifact files.
func NewArtifacts(modelFile, vectorizerFile string, dirs []string) *Artifacts {
	return &Artifacts{modelFile: modelFile, vectorizerFile: vectorizerFile, dirs: dirs}
}

// ArtifactsFromConfig probes the configured search paths, then the working
// directory, then the executable directory and its parents.
func ArtifactsFromConfig(cfg *config.Config) *Artifacts {
	return NewArtifacts(cfg.Scam.ModelFile, cfg.Scam.VectorizerFile, config.CandidateDirs(cfg.Scam.SearchPaths))
}

// Load returns the shared vectorizer and model, loading them on first use.
func (a *Artifacts) Load() (*Vectorizer, *Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.vectorizer != nil && a.model != nil {
		return a.vectorizer, a.model, nil
	}

	var vec Vectorizer
	if err := a.readJSON(a.vectorizerFile, &vec); err != nil {
		return nil, nil, err
	}
	if err := vec.validate(); err != nil {
		return nil, nil, err
	}
	var model Model
	if err := a.readJSON(a.modelFile, &model); err != nil {
		return nil, nil, err
	}
	if err := model.validate(vec.Features()); err != nil {
		return nil, nil, err
	}
	a.vectorizer, a.model = &vec, &model
	return a.vectorizer, a.model, nil
}

// Loaded reports whether the artifacts are resident.
func (a *Artifacts) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model != nil
}

func (a *Artifacts) readJSON(name string, target any) error {
	path, err := config.ResolveCandidate(name, a.dirs)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
