package workflows

import (
	"context"

	"github.com/PolarWolf314/keystash/internal/store"
	"github.com/PolarWolf314/keystash/internal/utils"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	Common

	// Match filters names with a doublestar glob.
	Match string

	// Kind restricts the listing to secrets or configs. Empty lists both.
	Kind store.Kind
}

// ListResult contains the matching items.
type ListResult struct {
	Root string

	// Names holds each matching name once, sorted.
	Names []string

	// Entries holds one entry per matching item file.
	Entries []store.Entry
}

// ListItems lists stored items.
func ListItems(ctx context.Context, opts ListOptions) (*ListResult, error) {
	st, _, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	all, err := st.Entries()
	if err != nil {
		return nil, err
	}

	var names []string
	byName := map[string][]store.Entry{}
	for _, e := range all {
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if _, seen := byName[e.Name]; !seen {
			names = append(names, e.Name)
		}
		byName[e.Name] = append(byName[e.Name], e)
	}

	names, err = utils.MatchNames(opts.Match, names)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Root: st.Root(), Names: []string{}}
	for _, name := range names {
		result.Names = append(result.Names, name)
		result.Entries = append(result.Entries, byName[name]...)
	}
	opts.Logger.Debugf("Listed %d names from %d files", len(result.Names), len(all))
	return result, nil
}

// DeleteOptions configures the delete workflow.
type DeleteOptions struct {
	Common

	Name string

	// Kind restricts deletion to secrets or configs. Empty deletes both.
	Kind store.Kind
}

// DeleteResult reports which files were removed.
type DeleteResult struct {
	Name    string
	Removed []string
}

// DeleteItem removes the files stored under a name. Deleting a name that
// does not exist succeeds with nothing removed.
func DeleteItem(ctx context.Context, opts DeleteOptions) (*DeleteResult, error) {
	if err := store.ValidateName(opts.Name); err != nil {
		return nil, err
	}

	st, _, err := opts.openStore(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := st.Entries()
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{Name: opts.Name}
	for _, e := range entries {
		if e.Name == opts.Name && (opts.Kind == "" || e.Kind == opts.Kind) {
			result.Removed = append(result.Removed, e.Path)
		}
	}

	if opts.Kind == "" {
		if err := st.Delete(opts.Name); err != nil {
			return nil, err
		}
	} else if err := st.DeleteKind(opts.Name, opts.Kind); err != nil {
		return nil, err
	}

	opts.Logger.Infof("Removed %d files for %s", len(result.Removed), opts.Name)
	return result, nil
}
