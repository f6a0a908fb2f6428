package history

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStats compares two rendered documents and returns the number of
// characters inserted and deleted going from base to head. Character-level
// diffing is precise enough for change flagging; callers with very large
// documents should hash first and skip the diff when hashes match.
func DiffStats(base, head string) (inserted, deleted int) {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(base, head, false)
	dmp.DiffCleanupSemantic(diffs)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += len(d.Text)
		}
	}
	return inserted, deleted
}
