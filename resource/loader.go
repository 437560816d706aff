package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/sofpak/m32"
	"github.com/meigma/sofpak/pak"
)

// ErrNoArchives is returned when a Loader is created without archives.
var ErrNoArchives = errors.New("resource: no archives")

// Texture is a decoded M32 texture.
//
// Textures are shared between callers through the cache and must not be
// modified.
type Texture struct {
	// Path is the normalized path of the texture inside its archive.
	Path string

	// Archive is the file path of the archive the texture was read from.
	Archive string

	// Header is the decoded texture header. It owns a private copy of the
	// entry bytes.
	Header *m32.Header

	// Image is mip level 0. Its pixels alias Header's buffer.
	Image *image.NRGBA
}

// Loader resolves textures across an ordered list of archives.
//
// A Loader is safe for concurrent use.
type Loader struct {
	paths       []string
	cacheSize   int
	concurrency int
	logger      *slog.Logger

	mu       sync.Mutex
	archives map[string]*pak.Archive // nil value: archive file is missing
	opens    singleflight.Group

	cache *lru.Cache[string, *Texture]
	group singleflight.Group // zero value is valid
}

// log returns the logger, falling back to a discard logger if nil.
func (l *Loader) log() *slog.Logger {
	if l.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.logger
}

// NewLoader creates a Loader searching archives in the given order.
//
// Archives are read lazily on first use.
func NewLoader(archives []string, opts ...Option) (*Loader, error) {
	if len(archives) == 0 {
		return nil, ErrNoArchives
	}
	l := &Loader{
		paths:    append([]string(nil), archives...),
		archives: make(map[string]*pak.Archive, len(archives)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cacheSize <= 0 {
		l.cacheSize = DefaultCacheSize
	}
	if l.concurrency <= 0 {
		l.concurrency = runtime.GOMAXPROCS(0)
	}
	cache, err := lru.New[string, *Texture](l.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create texture cache: %w", err)
	}
	l.cache = cache
	return l, nil
}

// archive returns the opened archive at path, or nil if the file does not
// exist.
//
// The file is read outside l.mu; concurrent first uses of the same path
// share one read.
func (l *Loader) archive(path string) (*pak.Archive, error) {
	if a, ok := l.openedArchive(path); ok {
		return a, nil
	}

	result, err, _ := l.opens.Do(path, func() (any, error) {
		// Double-check after winning the flight
		if a, ok := l.openedArchive(path); ok {
			return a, nil
		}
		a, err := pak.OpenFile(path, pak.WithLogger(l.logger))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			l.log().Debug("archive missing, skipping", "archive", path)
		case err != nil:
			return nil, err
		default:
			l.log().Debug("archive opened", "archive", path, "checksum", a.Checksum())
		}
		l.mu.Lock()
		l.archives[path] = a
		l.mu.Unlock()
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*pak.Archive), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

func (l *Loader) openedArchive(path string) (*pak.Archive, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.archives[path]
	return a, ok
}

// Find returns the content of the first entry matching pattern, searching
// archives in order, and the path of the archive that held it.
//
// pak.ErrNotFound from one archive moves the search to the next. Any other
// failure ends the search. The returned slice aliases the archive buffer.
func (l *Loader) Find(ctx context.Context, pattern string) ([]byte, string, error) {
	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		a, err := l.archive(path)
		if err != nil {
			return nil, "", err
		}
		if a == nil {
			continue
		}
		data, err := a.Find(pattern)
		if errors.Is(err, pak.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		return data, path, nil
	}
	return nil, "", fmt.Errorf("%w: %s in %d archives", pak.ErrNotFound, pattern, len(l.paths))
}

// Texture loads and decodes the texture at path.
//
// Results are cached by normalized path. Concurrent calls for the same path
// share one load; once it has started, cancelling ctx does not abort it, so
// the other waiting callers still receive the texture.
func (l *Loader) Texture(ctx context.Context, path string) (*Texture, error) {
	key := pak.NormalizePath(path)
	if tex, ok := l.cache.Get(key); ok {
		l.log().Debug("texture cache hit", "path", key)
		return tex, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err, _ := l.group.Do(key, func() (any, error) {
		// Double-check cache
		if tex, ok := l.cache.Get(key); ok {
			return tex, nil
		}
		tex, err := l.load(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		l.cache.Add(key, tex)
		return tex, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Texture), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

func (l *Loader) load(ctx context.Context, key string) (*Texture, error) {
	data, archive, err := l.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	h, err := m32.Decode(bytes.Clone(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", archive, key, err)
	}
	img, err := h.Image()
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", archive, key, err)
	}
	l.log().Debug("texture loaded", "path", key, "archive", archive, "width", img.Rect.Dx(), "height", img.Rect.Dy())
	return &Texture{Path: key, Archive: archive, Header: h, Image: img}, nil
}

// LoadAll loads every path concurrently.
//
// A failure loading one texture does not stop the others: the returned map
// holds every texture that loaded and the error joins the individual
// failures. Cancelling ctx stops scheduling further loads.
func (l *Loader) LoadAll(ctx context.Context, paths []string) (map[string]*Texture, error) {
	var (
		mu   sync.Mutex
		out  = make(map[string]*Texture, len(paths))
		errs []error
	)

	eg := new(errgroup.Group)
	eg.SetLimit(l.concurrency)
	for _, p := range paths {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			tex, err := l.Texture(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				l.log().Warn("texture failed to load", "path", p, "error", err)
				errs = append(errs, fmt.Errorf("load %s: %w", p, err))
				return nil
			}
			out[p] = tex
			return nil
		})
	}
	_ = eg.Wait() //nolint:errcheck // workers report through errs

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	l.log().Info("textures loaded", "requested", len(paths), "loaded", len(out), "failed", len(errs))
	return out, errors.Join(errs...)
}

// Purge drops every cached texture and forgets opened archives, so the next
// load re-reads archives from disk.
func (l *Loader) Purge() {
	l.cache.Purge()
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.archives)
}

// Cached returns the number of cached textures.
func (l *Loader) Cached() int {
	return l.cache.Len()
}
