package catalog

import (
	"io"
	"os"
	"path/filepath"
)

// Some references:
// - https://www.slideshare.net/nan1nan1/eat-my-data
// - https://lwn.net/Articles/457667/

// writeFileAtomically calls write with a temporary file created next to path
// and renames it over path only if write, Sync() and Close() all succeeded.
// On error the temporary file is removed and path is left untouched.
func writeFileAtomically(path string, write func(w io.Writer) error) error {
	dir, fName := filepath.Split(path)
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if fName == "" {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}

	tmpFile, err := os.CreateTemp(dir, fName)
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	didRename := false
	defer func() {
		if !didRename {
			// ignoring error on this one
			_ = os.Remove(tmpPath)
		}
	}()

	err = write(tmpFile)
	// https://www.joeshaw.org/dont-defer-close-on-writable-files/
	errSync := tmpFile.Sync()
	errClose := tmpFile.Close()
	if err == nil {
		err = errSync
	}
	if err == nil {
		err = errClose
	}
	if err != nil {
		return err
	}

	// CreateTemp uses 0600. Keep the permissions of the file we replace,
	// new files get 0644
	mode := os.FileMode(0644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	_ = os.Chmod(tmpPath, mode)

	// this will over-write path (if it exists)
	if err = os.Rename(tmpPath, path); err != nil {
		return err
	}
	didRename = true

	// for extra protection against crashes elsewhere,
	// sync directory after rename
	fdir, _ := os.Open(dir)
	if fdir != nil {
		// ignore errors as those are a nice have, not must have
		_ = fdir.Sync()
		_ = fdir.Close()
	}
	return nil
}
