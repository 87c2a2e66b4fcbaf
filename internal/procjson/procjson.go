// Package procjson runs an external command that reads one JSON document on
// stdin and writes one JSON document on stdout.
package procjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned when no argv was configured.
var ErrEmptyCommand = errors.New("procjson: empty command")

// Call holds the process settings for one invocation.
type Call struct {
	Argv []string
	Dir  string   // working directory; empty means the caller's
	Env  []string // extra KEY=VALUE pairs appended to the inherited environment
}

// Do encodes req to the child's stdin and decodes its stdout into resp.
// A non-zero exit is an error carrying the trimmed stderr.
func Do(ctx context.Context, call Call, req, resp any) error {
	if len(call.Argv) == 0 {
		return ErrEmptyCommand
	}

	in, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("procjson: encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, call.Argv[0], call.Argv[1:]...)
	cmd.Dir = call.Dir
	if len(call.Env) > 0 {
		cmd.Env = append(cmd.Environ(), call.Env...)
	}
	cmd.Stdin = bytes.NewReader(in)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("procjson: %s: %w: %s", call.Argv[0], err, msg)
		}
		return fmt.Errorf("procjson: %s: %w", call.Argv[0], err)
	}

	if err := json.Unmarshal(stdout.Bytes(), resp); err != nil {
		return fmt.Errorf("procjson: decode %s output: %w", call.Argv[0], err)
	}
	return nil
}
