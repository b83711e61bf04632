// Package media reads local video files and their duration metadata.
package media

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"vidembed/internal/domain"
)

// FileBlob is a domain.Blob backed by a file on an afero filesystem.
type FileBlob struct {
	Fs   afero.Fs
	Path string
}

// Open returns a fresh read handle. The caller owns and must close it.
func (b FileBlob) Open() (io.ReadSeekCloser, error) {
	f, err := b.Fs.Open(b.Path)
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", b.Path, err)
	}
	return f, nil
}

// Open stats path on fs and returns a LocalMedia with an unknown duration.
// The declared type comes from the extension, or from content sniffing when
// the extension is not registered.
func Open(fs afero.Fs, path string) (*domain.LocalMedia, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("media: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("media: %s is a directory", path)
	}
	blob := FileBlob{Fs: fs, Path: path}
	mimeType := DetectMIME(filepath.Base(path), nil)
	if mimeType == "" {
		head, err := readHead(blob)
		if err != nil {
			return nil, err
		}
		mimeType = DetectMIME("", head)
	}
	return domain.NewLocalMedia(filepath.Base(path), mimeType, info.Size(), blob), nil
}

var extraTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".ogv":  "video/ogg",
}

// DetectMIME resolves a media type from a file name, falling back to
// http.DetectContentType on head when the name gives nothing.
func DetectMIME(name string, head []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if t, ok := extraTypes[ext]; ok {
			return t
		}
		if t := mime.TypeByExtension(ext); t != "" {
			return stripParams(t)
		}
	}
	if len(head) == 0 {
		return ""
	}
	if looksLikeISOBMFF(head) {
		return "video/mp4"
	}
	return stripParams(http.DetectContentType(head))
}

func stripParams(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		return strings.TrimSpace(t[:i])
	}
	return t
}

func looksLikeISOBMFF(head []byte) bool {
	return len(head) >= 12 && bytes.Equal(head[4:8], []byte("ftyp"))
}

func readHead(b FileBlob) ([]byte, error) {
	rc, err := b.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf := make([]byte, 512)
	n, err := io.ReadFull(rc, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("media: read %s: %w", b.Path, err)
	}
	return buf[:n], nil
}
