//go:build integration
// +build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// restartService bounces one compose service so persistence across process
// restarts can be checked. E2E_COMPOSE_FILE points at a non-default file.
func restartService(t *testing.T, ctx context.Context, name string) {
	t.Helper()

	args := []string{"compose"}
	if f := getenv("E2E_COMPOSE_FILE", ""); f != "" {
		args = append(args, "-f", f)
	}
	args = append(args, "restart", name)

	out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput()
	if err != nil {
		t.Fatalf("docker %v failed: %v\n%s", args, err, string(out))
	}
}
