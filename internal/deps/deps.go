package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"bilistage/internal/toolchain"
)

// Requirement defines an external binary bilistage shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs, when set, are passed to the binary to read its version.
	VersionArgs []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Version     string `json:"version,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// CheckBinaries resolves every requirement on PATH and, for the ones found,
// asks runner for the first line of their version output. A failing version
// probe marks the binary unavailable.
func CheckBinaries(ctx context.Context, runner toolchain.Runner, requirements []Requirement) []Status {
	if runner == nil {
		runner = toolchain.ExecRunner{}
	}
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		if len(req.VersionArgs) > 0 {
			lines, err := runner.Run(ctx, resolved, req.VersionArgs...)
			if err != nil {
				status.Detail = fmt.Sprintf("version check failed: %v", err)
				results = append(results, status)
				continue
			}
			status.Version = firstLine(lines)
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}

func firstLine(lines []string) string {
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
