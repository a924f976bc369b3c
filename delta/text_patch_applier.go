package delta

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// textPatchApplier is a sample contracts.DeltaApplier for text-format
// packages: the delta file is a unified diff (as produced by
// BuildTextDelta, using github.com/pmezard/go-difflib to compute it) against
// the base package's contents, and Apply reconstructs the target file by
// walking the diff's hunks. Binary .nupkg payloads would need a real binary
// patch tool; this implementation exists to give contracts.DeltaApplier a
// second, non-trivial exerciser so Composer is tested against more than a
// pass-through copy.
type textPatchApplier struct {
	fileSystem interface {
		Open(path string) (io.ReadCloser, error)
		Create(path string) (io.WriteCloser, error)
	}
}

func NewTextPatchApplier(fileSystem interface {
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
}) *textPatchApplier {
	return &textPatchApplier{fileSystem: fileSystem}
}

func (this *textPatchApplier) Apply(basePath, deltaPath, outPath string) error {
	base, err := this.readLines(basePath)
	if err != nil {
		return err
	}
	patch, err := this.readLines(deltaPath)
	if err != nil {
		return err
	}

	result, err := applyUnifiedDiff(base, strings.Join(patch, ""))
	if err != nil {
		return err
	}

	destination, err := this.fileSystem.Create(outPath)
	if err != nil {
		return err
	}
	// difflib.SplitLines appends one "\n" past the end of the content it
	// splits, so the reassembled lines carry one newline too many.
	content := strings.TrimSuffix(strings.Join(result, ""), "\n")
	if _, err := io.WriteString(destination, content); err != nil {
		_ = destination.Close()
		return err
	}
	return destination.Close()
}

func (this *textPatchApplier) readLines(path string) ([]string, error) {
	reader, err := this.fileSystem.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return difflib.SplitLines(string(content)), nil
}

// BuildTextDelta produces the unified-diff delta file content that
// textPatchApplier.Apply later replays, using go-difflib's diffing engine.
// This is the publish-side counterpart of Apply, used by cmd/shimmer-publish
// when composing a delta package from two text-format release trees.
func BuildTextDelta(baseContent, targetContent, fromFile, toFile string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(baseContent),
		B:        difflib.SplitLines(targetContent),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// applyUnifiedDiff replays a unified diff (as produced by BuildTextDelta)
// against base, returning the patched lines. It understands exactly the
// hunk format go-difflib emits: "@@ -start,count +start,count @@" headers
// followed by ' ', '-', '+' prefixed lines.
func applyUnifiedDiff(base []string, patchText string) ([]string, error) {
	if strings.TrimSpace(patchText) == "" {
		return base, nil
	}

	var result []string
	baseIndex := 0
	scanner := bufio.NewScanner(strings.NewReader(patchText))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		if !strings.HasPrefix(line, "@@") {
			continue
		}
		fromStart, _, err := parseHunkRange(line, "-")
		if err != nil {
			return nil, err
		}
		// copy untouched lines preceding this hunk verbatim from base
		for baseIndex < fromStart-1 {
			result = append(result, base[baseIndex])
			baseIndex++
		}
		for scanner.Scan() {
			body := scanner.Text()
			if strings.HasPrefix(body, "@@") {
				// next hunk header; reprocess without consuming a scan
				fromStart, _, err = parseHunkRange(body, "-")
				if err != nil {
					return nil, err
				}
				for baseIndex < fromStart-1 {
					result = append(result, base[baseIndex])
					baseIndex++
				}
				continue
			}
			if body == "" {
				continue
			}
			switch body[0] {
			case ' ':
				result = append(result, body[1:]+"\n")
				baseIndex++
			case '-':
				baseIndex++
			case '+':
				result = append(result, body[1:]+"\n")
			default:
				return nil, fmt.Errorf("unrecognized diff line: %q", body)
			}
		}
	}
	for baseIndex < len(base) {
		result = append(result, base[baseIndex])
		baseIndex++
	}
	return result, nil
}

func parseHunkRange(header, marker string) (start, count int, err error) {
	parts := strings.Fields(header)
	for _, part := range parts {
		if strings.HasPrefix(part, marker) && !strings.HasPrefix(part, "@@") {
			spec := strings.TrimPrefix(part, marker)
			pieces := strings.SplitN(spec, ",", 2)
			start, err = strconv.Atoi(pieces[0])
			if err != nil {
				return 0, 0, fmt.Errorf("malformed hunk header %q: %w", header, err)
			}
			if len(pieces) == 2 {
				count, _ = strconv.Atoi(pieces[1])
			} else {
				count = 1
			}
			return start, count, nil
		}
	}
	return 0, 0, fmt.Errorf("malformed hunk header %q", header)
}

