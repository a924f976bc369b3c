package release

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Entry is an immutable record of one line in a RELEASES manifest
// (spec.md §3, "ReleaseEntry"). Identity is the pair (Filename, SHA1).
type Entry struct {
	SHA1     string
	Filename string
	Filesize int64
	Version  Version
	IsDelta  bool
	BaseURL  string
}

// NewEntry builds an Entry from a filename and recomputes Version/IsDelta
// from it, so callers constructing an entry from a freshly hashed file never
// have to keep the two in sync by hand.
func NewEntry(sha1Hex, filename string, filesize int64) (Entry, error) {
	_, version, isDelta, err := ClassifyFilename(filename)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		SHA1:     strings.ToLower(sha1Hex),
		Filename: strings.ToLower(filename),
		Filesize: filesize,
		Version:  version,
		IsDelta:  isDelta,
	}, nil
}

func (this Entry) sha1Equal(other string) bool {
	return strings.EqualFold(this.SHA1, other)
}

// Manifest is an ordered sequence of entries (spec.md §3). Duplicate
// filenames are permitted.
type Manifest struct {
	Entries []Entry
}

// CurrentVersion returns the largest version among non-delta entries, or nil
// if the manifest has none (an empty/bootstrap manifest).
func (this Manifest) CurrentVersion() *Entry {
	var best *Entry
	for i := range this.Entries {
		e := &this.Entries[i]
		if e.IsDelta {
			continue
		}
		if best == nil || best.Version.Less(e.Version) {
			best = e
		}
	}
	return best
}

// MaxVersion returns the largest version across all entries, delta or not,
// or the zero Version if the manifest is empty.
func (this Manifest) MaxVersion() Version {
	var best Version
	for _, e := range this.Entries {
		if best.Less(e.Version) {
			best = e.Version
		}
	}
	return best
}

// Sort orders entries ascending by version, then by IsDelta with full
// releases (false) sorting before deltas (true) — spec.md §4.2 and §4.10.
func (this *Manifest) Sort() {
	sort.SliceStable(this.Entries, func(i, j int) bool {
		a, b := this.Entries[i], this.Entries[j]
		if !a.Version.Equal(b.Version) {
			return a.Version.Less(b.Version)
		}
		if a.IsDelta != b.IsDelta {
			return !a.IsDelta
		}
		return false
	})
}

// ParseManifest implements the RELEASES grammar from spec.md §4.1: one entry
// per line, "<sha1> <filename> <filesize>" whitespace-separated; blank lines
// and lines starting with '#' are ignored. On any malformed line the decoder
// returns a *ManifestParseError naming the offending line and no entries at
// all — partial results are never returned on failure. This is the manifest
// codec's own error type, the one callers should errors.As against; the
// taxonomy in spec.md §7 names this kind as CorruptManifest, but release is a
// leaf package contracts itself depends on, so it cannot return a
// contracts-defined type without an import cycle.
func ParseManifest(r io.Reader) (Manifest, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return Manifest{}, &ManifestParseError{Line: lineNo, Reason: "expected 3 whitespace-separated fields"}
		}
		sha1Hex, filename, sizeStr := fields[0], fields[1], fields[2]
		if !isHex(sha1Hex) {
			return Manifest{}, &ManifestParseError{Line: lineNo, Reason: "sha1 is not hex"}
		}
		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil || size < 0 {
			return Manifest{}, &ManifestParseError{Line: lineNo, Reason: "filesize is not a non-negative integer"}
		}
		entry, err := NewEntry(sha1Hex, filename, size)
		if err != nil {
			return Manifest{}, &ManifestParseError{Line: lineNo, Reason: err.Error()}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return Manifest{}, &ManifestParseError{Reason: err.Error()}
	}
	return Manifest{Entries: entries}, nil
}

// WriteTo serializes the manifest in the caller-supplied order, one line per
// entry, UTF-8, a single '\n' terminator, no BOM (spec.md §4.1).
func (this Manifest) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, e := range this.Entries {
		line := fmt.Sprintf("%s %s %d\n", strings.ToLower(e.SHA1), e.Filename, e.Filesize)
		n, err := io.WriteString(w, line)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ManifestParseError reports a malformed RELEASES line. Line is 0 when the
// failure isn't attributable to one line (an I/O error mid-scan).
type ManifestParseError struct {
	Line   int
	Reason string
}

func (this *ManifestParseError) Error() string {
	if this.Line > 0 {
		return fmt.Sprintf("corrupt manifest at line %d: %s", this.Line, this.Reason)
	}
	return fmt.Sprintf("corrupt manifest: %s", this.Reason)
}

func isHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
