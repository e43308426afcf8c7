package transcript

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PartPath derives the output path for split artifact n (1-based) from
// the originally requested output path, splitting at the last extension
// separator: "notes.txt" -> "notes_part2.txt".
func PartPath(outputPath string, n int) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	return fmt.Sprintf("%s_part%d%s", base, n, ext)
}

// ArtifactPaths returns one output path per group. A single group keeps
// the requested path unchanged; multiple groups get part-numbered paths.
func ArtifactPaths(outputPath string, groups int) []string {
	if groups <= 1 {
		return []string{outputPath}
	}
	paths := make([]string, groups)
	for i := range paths {
		paths[i] = PartPath(outputPath, i+1)
	}
	return paths
}
