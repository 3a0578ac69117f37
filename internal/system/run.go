package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner executes host commands, escalating through sudo when a
// password has been collected. Output is captured and folded into the
// returned error so failures are visible to the caller.
type Runner struct {
	sudoPassword string
	logChan      chan<- string
}

func NewRunner(sudoPassword string, logChan chan<- string) *Runner {
	return &Runner{
		sudoPassword: sudoPassword,
		logChan:      logChan,
	}
}

func (r *Runner) log(message string) {
	if r.logChan != nil {
		r.logChan <- message
	}
}

// Run executes a command as the invoking user.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	r.log(fmt.Sprintf("$ %s %s", name, strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Output executes a command and returns its stdout.
func (r *Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), nil
}

// Sudo executes a command through sudo, feeding the collected password
// on stdin when one is present.
func (r *Runner) Sudo(ctx context.Context, name string, args ...string) error {
	r.log(fmt.Sprintf("$ sudo %s %s", name, strings.Join(args, " ")))

	var cmd *exec.Cmd
	if r.sudoPassword != "" {
		fullArgs := append([]string{name}, args...)
		quotedArgs := make([]string, len(fullArgs))
		for i, arg := range fullArgs {
			quotedArgs[i] = "'" + strings.ReplaceAll(arg, "'", "'\\''") + "'"
		}
		cmdStr := strings.Join(quotedArgs, " ")
		cmd = exec.CommandContext(ctx, "bash", "-c", fmt.Sprintf("echo '%s' | sudo -S %s", r.sudoPassword, cmdStr))
	} else {
		cmd = exec.CommandContext(ctx, "sudo", append([]string{name}, args...)...)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sudo %s failed: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// WriteFileAsRoot stages content in a temp file and installs it at a
// privileged path with the requested mode.
func (r *Runner) WriteFileAsRoot(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp("", "pikiosk-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := r.Sudo(ctx, "install", "-m", fmt.Sprintf("%04o", perm), tmpPath, path); err != nil {
		return fmt.Errorf("failed to install %s: %w", path, err)
	}
	return nil
}

// ValidatePassword tests a candidate sudo password with `sudo -S -v`.
func ValidatePassword(password string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmdStr := fmt.Sprintf("echo '%s' | sudo -S -v", password)
	cmd := exec.CommandContext(ctx, "bash", "-c", cmdStr)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false
		}
		outputStr := string(output)
		if strings.Contains(outputStr, "Sorry, try again") ||
			strings.Contains(outputStr, "incorrect password") ||
			strings.Contains(outputStr, "authentication failure") {
			return false
		}
		return false
	}
	return true
}

// CommandExists reports whether a binary is present on PATH.
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
