package patch

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Result describes the outcome of one edit. Changed=false means the
// file already carried the requested state and was left byte-for-byte
// untouched.
type Result struct {
	Path    string
	Changed bool
	Created bool
	Message string
}

// WriteFunc persists new file content. The default writes through the
// patcher's filesystem; privileged targets inject a sudo-backed writer.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

type Patcher struct {
	fs    afero.Fs
	write WriteFunc
}

func New(fs afero.Fs) *Patcher {
	p := &Patcher{fs: fs}
	p.write = func(path string, data []byte, perm os.FileMode) error {
		return afero.WriteFile(p.fs, path, data, perm)
	}
	return p
}

func NewWithWriter(fs afero.Fs, write WriteFunc) *Patcher {
	return &Patcher{fs: fs, write: write}
}

// SetCmdlineToken edits a kernel command-line file: one line of
// space-separated tokens. A missing key=value token is prepended to
// the first line followed by a single space; a token with a different
// value is replaced in place; a matching token leaves the file
// unchanged.
func (p *Patcher) SetCmdlineToken(path, key, value string) (Result, error) {
	result := Result{Path: path}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	line, rest, _ := strings.Cut(content, "\n")

	token := key + "=" + value
	prefix := key + "="

	fields := strings.Fields(line)
	replaced := false
	for i, f := range fields {
		if !strings.HasPrefix(f, prefix) {
			continue
		}
		if f == token {
			result.Message = fmt.Sprintf("%s already set in %s", token, path)
			return result, nil
		}
		fields[i] = token
		replaced = true
		break
	}

	var newLine string
	if replaced {
		newLine = strings.Join(fields, " ")
		result.Message = fmt.Sprintf("updated %s in %s", key, path)
	} else {
		newLine = token + " " + line
		result.Message = fmt.Sprintf("added %s to %s", token, path)
	}

	newContent := newLine
	if rest != "" || strings.Contains(content, "\n") {
		newContent += "\n" + rest
	}

	if err := p.write(path, []byte(newContent), 0644); err != nil {
		return result, err
	}
	result.Changed = true
	return result, nil
}

// EnsureCmdlineFlag appends a bare flag token (e.g. "splash") to the
// first line when absent. Presence is exact-token, so "splash" does
// not match "disable_splash".
func (p *Patcher) EnsureCmdlineFlag(path, flag string) (Result, error) {
	result := Result{Path: path}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	line, rest, _ := strings.Cut(content, "\n")

	for _, f := range strings.Fields(line) {
		if f == flag {
			result.Message = fmt.Sprintf("%s already present in %s", flag, path)
			return result, nil
		}
	}

	newContent := strings.TrimRight(line, " ") + " " + flag
	if rest != "" || strings.Contains(content, "\n") {
		newContent += "\n" + rest
	}

	if err := p.write(path, []byte(newContent), 0644); err != nil {
		return result, err
	}
	result.Changed = true
	result.Message = fmt.Sprintf("added %s to %s", flag, path)
	return result, nil
}

// EnsureConfigValue edits a line-oriented key=value file (config.txt
// style): rewrites the key's line when the value differs, appends the
// line when the key is absent, and no-ops when already equal. Creates
// the file when missing.
func (p *Patcher) EnsureConfigValue(path, key, value string) (Result, error) {
	result := Result{Path: path}
	wanted := key + "=" + value

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if !os.IsNotExist(err) {
			return result, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := p.write(path, []byte(wanted+"\n"), 0644); err != nil {
			return result, err
		}
		result.Changed = true
		result.Created = true
		result.Message = fmt.Sprintf("created %s with %s", path, wanted)
		return result, nil
	}

	lines := strings.Split(string(data), "\n")
	replaced := false
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		if !strings.HasPrefix(trimmed, key+"=") {
			continue
		}
		if trimmed == wanted {
			result.Message = fmt.Sprintf("%s already set in %s", wanted, path)
			return result, nil
		}
		lines[i] = wanted
		replaced = true
		break
	}

	if replaced {
		result.Message = fmt.Sprintf("updated %s in %s", key, path)
	} else {
		// Append before a trailing empty line so the file keeps its
		// final newline.
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = append(lines[:len(lines)-1], wanted, "")
		} else {
			lines = append(lines, wanted)
		}
		result.Message = fmt.Sprintf("added %s to %s", wanted, path)
	}

	if err := p.write(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return result, err
	}
	result.Changed = true
	return result, nil
}

// EnsureLine edits a command-list file (labwc autostart style): a line
// equal to the wanted one is a no-op, a line containing marker is
// replaced, otherwise the line is appended. Creates the file when
// missing.
func (p *Patcher) EnsureLine(path, marker, line string) (Result, error) {
	result := Result{Path: path}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if !os.IsNotExist(err) {
			return result, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := p.write(path, []byte(line+"\n"), 0644); err != nil {
			return result, err
		}
		result.Changed = true
		result.Created = true
		result.Message = fmt.Sprintf("created %s", path)
		return result, nil
	}

	lines := strings.Split(string(data), "\n")
	replaced := false
	for i, l := range lines {
		if strings.TrimSpace(l) == line {
			result.Message = fmt.Sprintf("line already present in %s", path)
			return result, nil
		}
		if strings.Contains(l, marker) {
			lines[i] = line
			replaced = true
			break
		}
	}

	if replaced {
		result.Message = fmt.Sprintf("updated %s line in %s", marker, path)
	} else {
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = append(lines[:len(lines)-1], line, "")
		} else {
			lines = append(lines, line)
		}
		result.Message = fmt.Sprintf("added line to %s", path)
	}

	if err := p.write(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return result, err
	}
	result.Changed = true
	return result, nil
}

// ReadFile reads through the patcher's filesystem.
func (p *Patcher) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(p.fs, path)
}

// Exists reports whether path is present on the patcher's filesystem.
func (p *Patcher) Exists(path string) (bool, error) {
	return afero.Exists(p.fs, path)
}

// WriteFile writes content when it differs from what is on disk.
func (p *Patcher) WriteFile(path string, content []byte, perm os.FileMode) (Result, error) {
	result := Result{Path: path}

	existing, err := afero.ReadFile(p.fs, path)
	if err == nil && string(existing) == string(content) {
		result.Message = fmt.Sprintf("%s already up to date", path)
		return result, nil
	}
	if err != nil && os.IsNotExist(err) {
		result.Created = true
	}

	if err := p.write(path, content, perm); err != nil {
		return result, err
	}
	result.Changed = true
	result.Message = fmt.Sprintf("wrote %s", path)
	return result, nil
}
