// Package file implements the macro language's File functions.
package file

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/robbyt/go-ijmacro/internal/helpers"
)

// DefaultRawCount is the number of bytes OpenAsRawString reads when no count is given.
const DefaultRawCount = 5000

// dateLayout matches the host's default date rendering, e.g. "Tue Mar 05 14:02:11 CET 2024".
const dateLayout = "Mon Jan 02 15:04:05 MST 2006"

// Files is the File function set bound to one FileSystem.
type Files struct {
	fs         FileSystem
	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures Files.
type Option func(*Files) error

// WithFileSystem replaces the OS file system.
func WithFileSystem(fsys FileSystem) Option {
	return func(f *Files) error {
		if fsys == nil {
			return fmt.Errorf("file system cannot be nil")
		}
		f.fs = fsys
		return nil
	}
}

// WithLogHandler sets the slog handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(f *Files) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		f.logHandler = handler
		f.logger = nil
		return nil
	}
}

// New creates the File functions over the OS file system unless another is given.
func New(opts ...Option) (*Files, error) {
	f := &Files{fs: OSFileSystem{}}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("error applying file option: %w", err)
		}
	}
	f.logHandler, f.logger = helpers.ResolveLogger(f.logHandler, f.logger, "file", "Files")
	return f, nil
}

// Separator returns the path separator of the platform.
func (f *Files) Separator() string {
	return string(filepath.Separator)
}

// Exists reports whether path exists.
func (f *Files) Exists(path string) bool {
	_, err := f.fs.Stat(path)
	return err == nil
}

// IsDirectory reports whether path is an existing directory.
func (f *Files) IsDirectory(path string) bool {
	info, err := f.fs.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path is an existing regular file.
func (f *Files) IsFile(path string) bool {
	info, err := f.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// Length returns the size of a file in bytes, or 0 when it does not exist.
func (f *Files) Length(path string) int64 {
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// LastModified returns the modification time in milliseconds since the epoch, or 0
// when path does not exist.
func (f *Files) LastModified(path string) int64 {
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixMilli()
}

// DateLastModified returns the modification time as text, or "" when path does not
// exist.
func (f *Files) DateLastModified(path string) string {
	info, err := f.fs.Stat(path)
	if err != nil {
		return ""
	}
	return info.ModTime().Format(dateLayout)
}

// GetName returns the last element of path.
func GetName(path string) string {
	path = strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// GetNameWithoutExtension returns GetName without its extension.
func GetNameWithoutExtension(path string) string {
	name := GetName(path)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// GetDirectory returns the directory part of path including the trailing separator.
// A path without a directory gives "".
func GetDirectory(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return ""
	}
	return path[:i+1]
}

// GetParent returns the parent directory of path without a trailing separator.
func GetParent(path string) string {
	path = strings.TrimRight(path, `/\`)
	i := strings.LastIndexAny(path, `/\`)
	switch {
	case i < 0:
		return ""
	case i == 0:
		return path[:1]
	}
	return path[:i]
}

// MakeDirectory creates path and any missing parents.
func (f *Files) MakeDirectory(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	return f.fs.Mkdir(path)
}

// Delete removes a file or an empty directory.
func (f *Files) Delete(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := f.fs.Remove(path); err != nil {
		return err
	}
	f.logger.Debug("deleted", "path", path)
	return nil
}

// Rename moves oldPath to newPath.
func (f *Files) Rename(oldPath, newPath string) error {
	return f.fs.Rename(oldPath, newPath)
}

// Copy copies the file src to dst, replacing dst.
func (f *Files) Copy(src, dst string) (err error) {
	if f.IsDirectory(src) {
		return fmt.Errorf("%w: %s", ErrIsDirectory, src)
	}
	in, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := f.fs.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// OpenAsString returns the contents of a text file.
func (f *Files) OpenAsString(path string) (string, error) {
	if f.IsDirectory(path) {
		return "", fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	data, err := f.fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// OpenAsRawString returns the first count bytes of a file; count <= 0 reads
// DefaultRawCount bytes.
func (f *Files) OpenAsRawString(path string, count int) (string, error) {
	if count <= 0 {
		count = DefaultRawCount
	}
	r, err := f.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	buf := make([]byte, count)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return string(buf[:n]), nil
}

// SaveString writes s to path, replacing its contents.
func (f *Files) SaveString(s, path string) error {
	return f.fs.WriteFile(path, []byte(s))
}

// Append adds s as a new line at the end of path, creating the file if needed.
func (f *Files) Append(s, path string) (err error) {
	w, err := f.fs.Append(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.WriteString(w, s+"\n")
	return err
}

// List returns the names in dir sorted alphabetically, with directories suffixed by
// "/". Hidden entries are skipped.
func (f *Files) List(dir string) ([]string, error) {
	if !f.IsDirectory(dir) {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Open creates or truncates path and returns it for writing with Print.
func (f *Files) Open(path string) (*OutputFile, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if f.IsDirectory(path) {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	w, err := f.fs.Create(path)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("opened for writing", "path", path)
	return &OutputFile{path: path, closer: w, w: bufio.NewWriter(w)}, nil
}

// OutputFile is a text file opened with Open.
type OutputFile struct {
	mu     sync.Mutex
	path   string
	closer io.Closer
	w      *bufio.Writer
}

func (o *OutputFile) String() string {
	return fmt.Sprintf("file.OutputFile{Path: %s}", o.path)
}

// Path returns the file name.
func (o *OutputFile) Path() string { return o.path }

// Print writes text followed by a newline.
func (o *OutputFile) Print(text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.w == nil {
		return fmt.Errorf("%w: %s", ErrClosed, o.path)
	}
	_, err := o.w.WriteString(text + "\n")
	return err
}

// Close flushes and closes the file. Closing twice is a no-op.
func (o *OutputFile) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.w == nil {
		return nil
	}
	err := errors.Join(o.w.Flush(), o.closer.Close())
	o.w = nil
	return err
}

// Closed reports whether Close was called.
func (o *OutputFile) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w == nil
}
