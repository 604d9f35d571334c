package registry

import (
	// Go Internal Packages
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	// Local Packages
	errors "pay-broker/errors"

	// External Packages
	"go.uber.org/zap"
)

const (
	statusNotPaid = "NOTPAID"
	statusPaid    = "PAID"

	nameField   = 0
	statusField = 3
)

// Runner executes the registry tool with args and returns its stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// CommandRunner runs the registry binary once per call.
type CommandRunner struct {
	Command string
}

func (r CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.New(msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

// Client is the registry of clients that can be paid for.
type Client struct {
	runner Runner
	logger *zap.Logger
}

func NewClient(runner Runner, logger *zap.Logger) *Client {
	return &Client{runner: runner, logger: logger}
}

// ValidateClients checks that each name exists for referrer and is not paid yet.
func (c *Client) ValidateClients(ctx context.Context, names []string, referrer string) error {
	list, err := c.runner.Run(ctx, "list", "--trim-whitespace", "--referrer", referrer)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	found := make(map[string]bool, len(names))
	for i, line := range strings.Split(list, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		chunks := strings.Fields(line)
		if len(chunks) <= statusField {
			return fmt.Errorf("malformed list line %d: %q", i+1, line)
		}

		name, status := chunks[nameField], chunks[statusField]
		if !wanted[name] {
			continue
		}
		if !strings.HasPrefix(status, statusNotPaid) {
			return fmt.Errorf("client '%s' is not notpaid, it's '%s'", name, status)
		}
		found[name] = true
	}

	// Duplicated names can never all match.
	if len(found) != len(names) {
		c.logger.Debug("clients missing from registry", zap.Strings("requested", names), zap.Int("found", len(found)))
		return errors.New("cannot find clients")
	}
	return nil
}

// MakeClientPaid marks a single client as paid.
func (c *Client) MakeClientPaid(ctx context.Context, name string) error {
	_, err := c.runner.Run(ctx, "set-info", "--name", name, "--info", statusPaid)
	return err
}
