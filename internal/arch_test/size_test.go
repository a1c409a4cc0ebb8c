package arch_test

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Size limits for internal packages. Test files count toward the line
// limit but not the file limit.
const (
	maxFilesPerPackage = 20
	maxLinesPerFile    = 400
)

// sourceAndTestFiles returns every .go file in dir, tests included, sorted.
func sourceAndTestFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading directory %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

// isGenerated reports whether the file's first line marks it as generated.
func isGenerated(t *testing.T, filePath string) bool {
	t.Helper()

	f, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("opening %s: %v", filePath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	return scanner.Scan() && strings.HasPrefix(scanner.Text(), "// Code generated")
}

func TestPackageFileCount(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		if n := len(goFilesIn(t, filepath.Join(dir, pkg))); n > maxFilesPerPackage {
			t.Errorf("package %s has %d .go files (limit %d); split it", pkg, n, maxFilesPerPackage)
		}
	}
}

func TestFileLineCount(t *testing.T) {
	t.Parallel()

	root := repoRoot(t)
	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		for _, path := range sourceAndTestFiles(t, filepath.Join(dir, pkg)) {
			if isGenerated(t, path) {
				continue
			}
			if n := lineCount(t, path); n > maxLinesPerFile {
				rel, _ := filepath.Rel(root, path)
				t.Errorf("%s has %d lines (limit %d); decompose it", rel, n, maxLinesPerFile)
			}
		}
	}
}
