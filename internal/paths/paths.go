// Package paths holds the slash-delimited path helpers shared by the
// materializer and the page renderer.
package paths

import "strings"

// Separator is the segment delimiter for site paths. Page locations and
// settings directories are always slash-delimited regardless of platform.
const Separator = "/"

// Normalize removes every empty segment from p and re-joins the remaining
// segments with a single separator. A leading separator is kept so that an
// absolute path stays absolute; "/" normalizes to itself.
func Normalize(p string) string {
	segments := Segments(p)
	joined := strings.Join(segments, Separator)
	if strings.HasPrefix(p, Separator) {
		return Separator + joined
	}
	return joined
}

// Segments returns the non-empty segments of p in order.
func Segments(p string) []string {
	raw := strings.Split(p, Separator)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Ancestors decomposes p into the chain of directories that must exist for p
// to exist, root-most first: "a/b/c" yields "a", "a/b", "a/b/c". The filesystem
// root of an absolute path is never part of the chain.
func Ancestors(p string) []string {
	segments := Segments(p)
	prefix := ""
	if strings.HasPrefix(p, Separator) {
		prefix = Separator
	}
	chain := make([]string, 0, len(segments))
	for i := range segments {
		chain = append(chain, prefix+strings.Join(segments[:i+1], Separator))
	}
	return chain
}

// Join appends a site location to a root directory, e.g. "build" + "/a/b".
// The result is normalized.
func Join(root, loc string) string {
	return Normalize(root + Separator + loc)
}
