// Package source resolves CLI arguments into the list of RPGLE source
// files to lint: plain files, directories (walked recursively), and **
// glob patterns.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

var sourceExts = map[string]bool{
	".rpgle":    true,
	".sqlrpgle": true,
}

// IsSource reports whether path has an RPGLE source extension.
func IsSource(path string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(path))]
}

// Resolve expands args into a deduplicated, sorted list of source files.
// Explicitly named files are accepted regardless of extension and never
// filtered by ignore patterns; directories and globs yield only RPGLE
// extensions. An inaccessible non-glob path is kept in the result so the
// read failure is reported for that file alone instead of aborting the run.
func Resolve(args, ignore []string) ([]string, error) {
	ignoreGlobs := compileIgnores(ignore)

	seen := map[string]bool{}
	var out []string
	add := func(path string, explicit bool) {
		if !explicit && ignored(ignoreGlobs, path) {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		switch {
		case hasGlobChars(arg):
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", arg, err)
			}
			for _, m := range matches {
				info, err := os.Stat(m)
				if err != nil {
					continue
				}
				if info.IsDir() {
					if err := walk(m, func(p string) { add(p, false) }); err != nil {
						return nil, err
					}
				} else if IsSource(m) {
					add(m, false)
				}
			}
		default:
			info, err := os.Stat(arg)
			if err != nil {
				add(arg, true)
				continue
			}
			if info.IsDir() {
				if err := walk(arg, func(p string) { add(p, false) }); err != nil {
					return nil, err
				}
			} else {
				add(arg, true)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

func walk(dir string, add func(string)) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsSource(p) {
			add(p)
		}
		return nil
	})
}

func hasGlobChars(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func compileIgnores(patterns []string) []glob.Glob {
	var out []glob.Glob
	for _, p := range patterns {
		if g, err := glob.Compile(p); err == nil {
			out = append(out, g)
		}
	}
	return out
}

func ignored(globs []glob.Glob, path string) bool {
	clean := filepath.Clean(path)
	for _, g := range globs {
		if g.Match(path) || g.Match(clean) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}
