package preflight

import (
	"context"

	"orato/internal/config"
	"orato/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// minFreeUploadBytes is the smallest free space on the upload volume that
// still fits one maximum-size recording.
func minFreeUploadBytes(cfg *config.Config) uint64 {
	return uint64(cfg.MaxUploadBytes())
}

// RunAll executes every preflight check for the given config, including a
// billable LLM round trip.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return append(RunCore(ctx, cfg), CheckLLM(ctx, "Generative model", cfg.GetLLM()))
}

// RunCore runs the local checks plus the vision sidecar health probe.
func RunCore(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Upload directory", cfg.Paths.UploadDir),
		CheckFreeSpace("Upload volume", cfg.Paths.UploadDir, minFreeUploadBytes(cfg)),
	}
	for _, status := range deps.CheckMediaTools(ctx, deps.Requirements(cfg)) {
		results = append(results, FromStatus(status))
	}
	return append(results, CheckVision(ctx, cfg.Vision))
}

// FromStatus converts a dependency status into a check result. Optional
// binaries that are missing still pass so they do not mark the service down.
func FromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
	if status.Available {
		result.Detail = status.Command
		if status.Version != "" {
			result.Detail += " " + status.Version
		}
	}
	if !status.Available && status.Optional {
		result.Passed = true
		result.Detail = "optional: " + status.Detail
	}
	return result
}

// Failed filters results down to failing checks.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
