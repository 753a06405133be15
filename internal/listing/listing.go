// Package listing collects the entries of one directory and keeps them in
// the order chosen by the grouping and sort policies.
package listing

import (
	"slices"
	"strings"
	"time"
)

// Entry is the metadata kept for one directory entry. Name is the base
// name, never a path.
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Options are the ordering policies of a Listing.
type Options struct {
	Grouping Grouping
	Sort     Sort
	Dotfiles bool
}

// Listing is a sequence of entries that is sorted after every Push.
type Listing struct {
	opts    Options
	entries []Entry
}

func New(opts Options) *Listing {
	return &Listing{opts: opts}
}

// Push inserts e at its sorted position. Dotfiles are dropped unless the
// listing was created with Dotfiles set.
func (l *Listing) Push(e Entry) {
	if !l.opts.Dotfiles && strings.HasPrefix(e.Name, ".") {
		return
	}
	cmp := func(a, b Entry) int { return Compare(a, b, l.opts.Grouping, l.opts.Sort) }
	// Insert after any equal entries so equal names keep a stable position.
	i, found := slices.BinarySearchFunc(l.entries, e, cmp)
	for found && i < len(l.entries) && cmp(l.entries[i], e) == 0 {
		i++
	}
	l.entries = slices.Insert(l.entries, i, e)
}

func (l *Listing) Len() int { return len(l.entries) }

func (l *Listing) Get(i int) Entry { return l.entries[i] }

// Entries returns a copy of the entries in sorted order.
func (l *Listing) Entries() []Entry {
	return slices.Clone(l.entries)
}

func (l *Listing) Options() Options { return l.opts }

// Compare orders a before b (negative), after b (positive) or reports them
// equal (zero). Grouping dominates; within a group, or when grouping is
// Mixed, names are compared case-sensitively in the direction of s.
func Compare(a, b Entry, g Grouping, s Sort) int {
	switch g {
	case DirectoriesFirst:
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return -1
			}
			return 1
		}
	case FilesFirst:
		if a.IsDir != b.IsDir {
			if a.IsDir {
				return 1
			}
			return -1
		}
	case Mixed:
	default:
		panic("listing: unknown grouping " + g.String())
	}

	switch s {
	case Alphabetical:
		return strings.Compare(a.Name, b.Name)
	case ReverseAlphabetical:
		return strings.Compare(b.Name, a.Name)
	default:
		panic("listing: unknown sort " + s.String())
	}
}
