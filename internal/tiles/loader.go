package tiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fredbi/uri"
	"golang.org/x/sync/semaphore"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

// ErrLoadInFlight is returned when a load starts while another is running.
var ErrLoadInFlight = errors.New("tile load already in flight")

// Target receives decoded tiles.
type Target interface {
	LoadTile(pixels map[geom.Key]palette.Color)
	ClearUser()
}

// Options control how tiles are applied.
type Options struct {
	// SnapToPalette maps every pixel to its nearest catalog colour.
	SnapToPalette bool
	// ClearUser empties the user layer before the tile is merged.
	ClearUser bool
	Timeout   time.Duration
	Client    *http.Client
}

// Request identifies a tile to load.
type Request struct {
	Source string
	TileX  int
	TileY  int
}

// Origin of the requested tile in theoretical coordinates.
func (r Request) Origin() geom.Point {
	return Origin(r.TileX, r.TileY)
}

// Result describes an applied tile.
type Result struct {
	Request Request
	Width   int
	Height  int
	Pixels  int
}

// Loader fetches, decodes and applies one tile at a time.
type Loader struct {
	target   Target
	opts     Options
	inFlight *semaphore.Weighted
}

// NewLoader creates a loader applying tiles to target.
func NewLoader(target Target, opts Options) *Loader {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &Loader{
		target:   target,
		opts:     opts,
		inFlight: semaphore.NewWeighted(1),
	}
}

// Load fetches req.Source (an http(s) URL, a file:// URL or a local path),
// decodes it and merges it into the target. The target is touched only
// after the tile decoded successfully.
func (l *Loader) Load(ctx context.Context, req Request) (Result, error) {
	if !l.inFlight.TryAcquire(1) {
		return Result{}, ErrLoadInFlight
	}
	defer l.inFlight.Release(1)
	return l.load(ctx, req)
}

// load does the work of Load. The caller holds the in-flight slot.
func (l *Loader) load(ctx context.Context, req Request) (Result, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	rc, err := l.open(ctx, req.Source)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	tile, err := Decode(rc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", req.Source, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", req.Source, err)
	}

	if l.opts.SnapToPalette {
		Snap(tile.Pixels)
	}
	pixels := Shift(tile.Pixels, req.Origin())

	if l.opts.ClearUser {
		l.target.ClearUser()
	}
	l.target.LoadTile(pixels)

	log.Printf("[TILES] Loaded %s tile (%d,%d) %dx%d, %d pixels in %v",
		tile.Format, req.TileX, req.TileY, tile.Width, tile.Height, len(pixels), time.Since(start).Round(time.Millisecond))

	return Result{Request: req, Width: tile.Width, Height: tile.Height, Pixels: len(pixels)}, nil
}

// LoadAsync runs Load on its own goroutine and reports through done.
// The in-flight slot is taken before returning and released by the
// goroutine, so a busy loader fails synchronously with ErrLoadInFlight.
func (l *Loader) LoadAsync(ctx context.Context, req Request, done func(Result, error)) error {
	if !l.inFlight.TryAcquire(1) {
		return ErrLoadInFlight
	}

	go func() {
		res, err := l.load(ctx, req)
		l.inFlight.Release(1)
		if done != nil {
			done(res, err)
		}
	}()
	return nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if source == "" {
		return nil, errors.New("empty tile source")
	}

	if strings.Contains(source, "://") {
		u, err := uri.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("invalid tile url %q: %w", source, err)
		}
		switch strings.ToLower(u.Scheme()) {
		case "http", "https":
			return l.fetch(ctx, source)
		case "file":
			return openFile(u.Authority().Path())
		default:
			return nil, fmt.Errorf("unsupported tile url scheme %q", u.Scheme())
		}
	}
	return openFile(source)
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build tile request: %w", err)
	}
	resp, err := l.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tile: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch tile %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tile: %w", err)
	}
	return f, nil
}
