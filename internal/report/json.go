package report

import (
	"encoding/json"
	"io"
)

// FileExport is one file of the JSON report.
type FileExport struct {
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
}

// Export is the top-level JSON report structure.
type Export struct {
	Files []FileExport `json:"files"`
	Total int          `json:"total"`
}

// BuildExport flattens files into an Export. Files without findings are
// left out.
func BuildExport(files []FileResult) Export {
	export := Export{Files: []FileExport{}}
	for _, fr := range files {
		findings := Flatten(fr)
		if len(findings) == 0 {
			continue
		}
		export.Files = append(export.Files, FileExport{Path: fr.Source.Path, Findings: findings})
		export.Total += len(findings)
	}
	return export
}

// JSON writes the Export of files as indented JSON.
func JSON(w io.Writer, files []FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildExport(files))
}
