package installer

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeffora/shimmer/contracts"
)

// hostCall is the outcome of one lifecycle call made to cmd/shimmer-host:
// any shortcuts it asked to be created and any tombstoned (user-deleted)
// shortcuts it reported. A hosted call that threw is reported as the error
// parseHostProtocol returns, not as a field here.
type hostCall struct {
	Shortcuts  []contracts.ShortcutCreationRequest
	Tombstones []string
}

// parseHostProtocol reads cmd/shimmer-host's line-oriented stdout protocol:
//
//	SHORTCUT <name>|<target>|<arguments>|<workingDir>|<iconPath>|<pinned>
//	TOMBSTONE <path>
//	OK
//	ERROR <message>
//
// modeled directly on IMQS-updater/updater/shell_windows.go's pattern of
// shelling out and parsing captured stdout rather than linking foreign code
// into the main process.
func parseHostProtocol(output string) (hostCall, error) {
	var call hostCall
	scanner := bufio.NewScanner(strings.NewReader(output))
	terminated := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case line == "OK":
			terminated = true
		case strings.HasPrefix(line, "ERROR "):
			return call, fmt.Errorf("%s", strings.TrimPrefix(line, "ERROR "))
		case strings.HasPrefix(line, "SHORTCUT "):
			request, err := parseShortcutLine(strings.TrimPrefix(line, "SHORTCUT "))
			if err != nil {
				return call, err
			}
			call.Shortcuts = append(call.Shortcuts, request)
		case strings.HasPrefix(line, "TOMBSTONE "):
			call.Tombstones = append(call.Tombstones, strings.TrimPrefix(line, "TOMBSTONE "))
		default:
			return call, fmt.Errorf("unrecognized shimmer-host output line: %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return call, err
	}
	if !terminated {
		return call, fmt.Errorf("shimmer-host exited without a terminal OK line")
	}
	return call, nil
}

func parseShortcutLine(fields string) (contracts.ShortcutCreationRequest, error) {
	parts := strings.Split(fields, "|")
	if len(parts) != 6 {
		return contracts.ShortcutCreationRequest{}, fmt.Errorf("malformed SHORTCUT line: %q", fields)
	}
	pinned, err := strconv.ParseBool(parts[5])
	if err != nil {
		return contracts.ShortcutCreationRequest{}, fmt.Errorf("malformed SHORTCUT pinned flag: %q", parts[5])
	}
	return contracts.ShortcutCreationRequest{
		Name:       parts[0],
		TargetPath: parts[1],
		Arguments:  parts[2],
		WorkingDir: parts[3],
		IconPath:   parts[4],
		Pinned:     pinned,
	}, nil
}

// FormatShortcutLine is the inverse of parseShortcutLine, used by
// cmd/shimmer-host to emit a SHORTCUT line.
func FormatShortcutLine(request contracts.ShortcutCreationRequest) string {
	return fmt.Sprintf("SHORTCUT %s|%s|%s|%s|%s|%t",
		request.Name, request.TargetPath, request.Arguments, request.WorkingDir, request.IconPath, request.Pinned)
}
