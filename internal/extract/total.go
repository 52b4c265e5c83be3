package extract

import (
	"context"
	"path"

	"xmage-maintenance/internal/gitrepo"
)

// Totals counts card source files in the working tree across all set
// directories. Files are keyed by name, so reprints sharing a class
// name collapse into one unique entry while still counting toward the
// total.
func (e *Extractor) Totals(ctx context.Context) (unique, total int, err error) {
	entries, err := e.src.ListDir(ctx, gitrepo.WorkingTree, SetsRoot)
	if err != nil {
		return 0, 0, err
	}
	counts := make(map[string]int)
	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}
		files, err := e.src.ListDir(ctx, gitrepo.WorkingTree, path.Join(SetsRoot, entry.Name))
		if err != nil {
			return 0, 0, err
		}
		for _, f := range files {
			if f.IsDir {
				continue
			}
			counts[f.Name]++
		}
	}
	for _, n := range counts {
		unique++
		total += n
	}
	return unique, total, nil
}
