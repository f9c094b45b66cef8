package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// ToolVersion runs "<binary> -version" and returns the version token from
// the banner, e.g. "7.1" from "ffmpeg version 7.1 Copyright ...".
func ToolVersion(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}
	return ParseVersionBanner(string(out))
}

// ParseVersionBanner extracts the token after "version" on the first line.
func ParseVersionBanner(banner string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(banner), "\n")
	fields := strings.Fields(line)
	for i, field := range fields {
		if field == "version" && i+1 < len(fields) {
			return fields[i+1], nil
		}
	}
	return "", fmt.Errorf("unrecognized version banner %q", line)
}

// CheckMediaTools checks presence and, for present tools, records versions.
func CheckMediaTools(ctx context.Context, requirements []Requirement) []Status {
	results := CheckBinaries(requirements)
	for i := range results {
		if !results[i].Available {
			continue
		}
		version, err := ToolVersion(ctx, results[i].Command)
		if err != nil {
			results[i].Detail = err.Error()
			continue
		}
		results[i].Version = version
	}
	return results
}
