package compositor

import (
	"fmt"
	"os"
	"strings"

	"github.com/AvengeMedia/pikiosk/internal/edid"
	"github.com/AvengeMedia/pikiosk/internal/patch"
)

// Wayfire keeps everything in one INI file: the autostart plugin loads
// the browser, an [output:NAME] section pins the mode.

func ensureWayfireKiosk(p *patch.Patcher, path, url string) (patch.Result, error) {
	command := KioskCommand(url)

	content, exists, err := readIfExists(p, path)
	if err != nil {
		return patch.Result{Path: path}, err
	}

	if !exists {
		initial := fmt.Sprintf("[core]\nplugins = autostart\n\n[autostart]\nchromium = %s\n", command)
		return p.WriteFile(path, []byte(initial), 0644)
	}

	updated := content
	if plugins, ok := iniLookup(updated, "core", "plugins"); ok {
		if !containsField(plugins, "autostart") {
			updated, _ = iniSet(updated, "core", "plugins", plugins+" autostart")
		}
	} else {
		updated, _ = iniSet(updated, "core", "plugins", "autostart")
	}

	updated, _ = iniSet(updated, "autostart", "chromium", command)

	return p.WriteFile(path, []byte(updated), 0644)
}

func ensureWayfireMode(p *patch.Patcher, path, output string, mode edid.Mode) (patch.Result, error) {
	content, exists, err := readIfExists(p, path)
	if err != nil {
		return patch.Result{Path: path}, err
	}
	if !exists {
		content = ""
	}

	section := "output:" + output
	updated, _ := iniSet(content, section, "mode", mode.WlrMode())

	return p.WriteFile(path, []byte(updated), 0644)
}

func readIfExists(p *patch.Patcher, path string) (string, bool, error) {
	data, err := p.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), true, nil
}

func containsField(s, field string) bool {
	for _, f := range strings.Fields(s) {
		if f == field {
			return true
		}
	}
	return false
}

// iniLookup returns the value of key inside [section], if present.
func iniLookup(content, section, key string) (string, bool) {
	inSection := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			inSection = trimmed == "["+section+"]"
			continue
		}
		if !inSection {
			continue
		}
		k, v, found := strings.Cut(trimmed, "=")
		if !found {
			continue
		}
		if strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// iniSet replaces key inside [section] with value, inserting the key
// (and the section, when absent) as needed. Returns the new content
// and whether anything changed.
func iniSet(content, section, key, value string) (string, bool) {
	wanted := key + " = " + value
	header := "[" + section + "]"

	lines := strings.Split(content, "\n")
	inSection := false
	sectionEnd := -1

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if inSection {
				sectionEnd = i
				break
			}
			inSection = trimmed == header
			continue
		}
		if !inSection {
			continue
		}
		k, _, found := strings.Cut(trimmed, "=")
		if !found || strings.TrimSpace(k) != key {
			continue
		}
		if trimmed == wanted {
			return content, false
		}
		lines[i] = wanted
		return strings.Join(lines, "\n"), true
	}

	if !inSection && sectionEnd == -1 {
		// Section never seen: append it.
		out := content
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if out != "" {
			out += "\n"
		}
		return out + header + "\n" + wanted + "\n", true
	}

	// Section exists but key is missing: insert at the section's end.
	insertAt := sectionEnd
	if insertAt == -1 {
		insertAt = len(lines)
	}
	// Back up over blank lines so the key lands inside the section.
	for insertAt > 0 && strings.TrimSpace(lines[insertAt-1]) == "" {
		insertAt--
	}

	out := append([]string{}, lines[:insertAt]...)
	out = append(out, wanted)
	out = append(out, lines[insertAt:]...)
	return strings.Join(out, "\n"), true
}
