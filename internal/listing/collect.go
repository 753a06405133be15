package listing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// statWorkers bounds the number of concurrent stat calls per directory.
const statWorkers = 16

// Collect reads dir and pushes one Entry per directory entry into l.
// Any read or stat failure aborts the whole collection; l must then be
// discarded.
func Collect(ctx context.Context, dir string, l *Listing) error {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	entries := make([]Entry, len(dirents))
	group, groupctx := errgroup.WithContext(ctx)
	group.SetLimit(statWorkers)
	for i, dirent := range dirents {
		group.Go(func() error {
			if err := groupctx.Err(); err != nil {
				return err
			}
			e, err := entryFor(dir, dirent)
			if err != nil {
				return err
			}
			entries[i] = e
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for _, e := range entries {
		l.Push(e)
	}
	return nil
}

func entryFor(dir string, dirent fs.DirEntry) (Entry, error) {
	info, err := dirent.Info()
	if err != nil {
		return Entry{}, fmt.Errorf("stat %s: %w", dirent.Name(), err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		// Classify links by their target; a dangling link stays a file.
		target, err := os.Stat(filepath.Join(dir, dirent.Name()))
		switch {
		case err == nil:
			info = target
		case !errors.Is(err, fs.ErrNotExist):
			return Entry{}, fmt.Errorf("stat %s: %w", dirent.Name(), err)
		}
	}
	return Entry{
		Name:    dirent.Name(),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
