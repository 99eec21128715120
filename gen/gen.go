// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package gen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Generator produces the il text for a single instruction group.
type Generator interface {
	// Generate returns the il representation of the named instruction.
	// Identical inputs must produce byte-identical output.
	Generate(ctx context.Context, name string) (il []byte, err error)
}

// scriptPattern matches per-instruction generator scripts. The captured
// group is the instruction name.
var scriptPattern = regexp.MustCompile(`^formal_([a-z0-9_]+)\.star$`)

// ScriptName returns the generator script filename for an instruction.
func ScriptName(insn string) string {
	return "formal_" + insn + ".star"
}

// Discover scans a file system for generator scripts and returns the
// sorted set of instruction names they define. Files not matching the
// formal_<name>.star convention are ignored, so shared support modules
// may live alongside the scripts.
func Discover(filesys fs.FS) (names []string, err error) {
	err = fs.WalkDir(filesys, ".", func(path string, d fs.DirEntry, err_in error) (err error) {
		if err_in != nil {
			return err_in
		}
		if d.IsDir() {
			if path != "." {
				return fs.SkipDir
			}
			return
		}
		m := scriptPattern.FindStringSubmatch(d.Name())
		if m == nil {
			return
		}
		names = append(names, m[1])
		return
	})
	if err != nil {
		return
	}
	slices.Sort(names)
	return
}

// DiscoverDir is Discover over an on-disk directory.
func DiscoverDir(dir string) (names []string, err error) {
	return Discover(os.DirFS(dir))
}

// WriteArtifact writes an il artifact atomically: the content lands in a
// temporary file that is renamed into place only once fully written. A
// failed generation therefore never leaves a partial artifact behind for
// the staleness check to mistake for an up-to-date one.
func WriteArtifact(path string, il []byte) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(il)
	if err != nil {
		return
	}
	err = tmp.Close()
	if err != nil {
		return
	}

	return os.Rename(tmp.Name(), path)
}

// ilHeader frames generated il output. No timestamps: the artifact must be
// a pure function of the script and the model.
func ilHeader(insn string) string {
	var sb strings.Builder
	sb.WriteString("# il for instruction '" + insn + "'\n")
	sb.WriteString("attribute \\generator \"fv6502\"\n")
	return sb.String()
}
