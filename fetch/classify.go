package fetch

import "strings"

// Kind distinguishes the two remote address shapes spec.md §4.5 supports.
type Kind int

const (
	KindLocalDirectory Kind = iota
	KindHTTP
)

// Classify inspects sourceAddress and reports which transport Fetcher should
// use for it. Anything without an http(s) scheme is treated as a local
// directory path, matching spec.md's "otherwise, treat it as a filesystem
// path" fallback.
func Classify(sourceAddress string) Kind {
	lower := strings.ToLower(sourceAddress)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return KindHTTP
	}
	return KindLocalDirectory
}
