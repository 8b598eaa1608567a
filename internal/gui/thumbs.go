package gui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"fyne.io/fyne/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"codeberg.org/snonux/photobooth/internal/logger"
)

// ThumbnailSource downloads image bytes. *unsplash.Client implements it.
type ThumbnailSource interface {
	Thumbnail(ctx context.Context, url string) ([]byte, error)
}

// ThumbnailLoader downloads and decodes thumbnails in the background with
// a bounded number of workers and keeps recently used images in memory.
// Callbacks run through the dispatcher, which is fyne.Do in the app.
type ThumbnailLoader struct {
	source   ThumbnailSource
	cache    *lru.Cache[string, image.Image]
	dispatch func(func())
	log      zerolog.Logger

	mu      sync.Mutex
	waiting map[string][]func(image.Image)

	requests chan string
	workers  *pool.Pool
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewThumbnailLoader starts a loader. A nil dispatch uses fyne.Do.
func NewThumbnailLoader(source ThumbnailSource, cacheSize, workers int, dispatch func(func())) (*ThumbnailLoader, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	if dispatch == nil {
		dispatch = fyne.Do
	}

	cache, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail cache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &ThumbnailLoader{
		source:   source,
		cache:    cache,
		dispatch: dispatch,
		log:      logger.New("thumbs"),
		waiting:  make(map[string][]func(image.Image)),
		requests: make(chan string),
		workers:  pool.New().WithMaxGoroutines(workers),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go l.run()
	return l, nil
}

// Load delivers the image at url to apply. Cached images are delivered
// synchronously; otherwise apply runs later through the dispatcher.
// Concurrent loads of the same url share one download. Failed loads are
// logged and apply is never called.
func (l *ThumbnailLoader) Load(url string, apply func(image.Image)) {
	if url == "" {
		return
	}
	if img, ok := l.cache.Get(url); ok {
		apply(img)
		return
	}

	l.mu.Lock()
	callbacks, inFlight := l.waiting[url]
	l.waiting[url] = append(callbacks, apply)
	l.mu.Unlock()

	if inFlight {
		return
	}

	go func() {
		select {
		case l.requests <- url:
		case <-l.ctx.Done():
		}
	}()
}

// Close stops accepting work and waits for running downloads
func (l *ThumbnailLoader) Close() {
	l.cancel()
	<-l.done
	l.workers.Wait()
}

func (l *ThumbnailLoader) run() {
	defer close(l.done)
	for {
		select {
		case url := <-l.requests:
			l.workers.Go(func() {
				l.fetch(url)
			})
		case <-l.ctx.Done():
			return
		}
	}
}

func (l *ThumbnailLoader) fetch(url string) {
	img, err := l.download(url)

	l.mu.Lock()
	callbacks := l.waiting[url]
	delete(l.waiting, url)
	l.mu.Unlock()

	if err != nil {
		if l.ctx.Err() == nil {
			l.log.Warn().Err(err).Str("url", url).Msg("Failed to load thumbnail")
		}
		return
	}

	l.cache.Add(url, img)
	l.dispatch(func() {
		for _, apply := range callbacks {
			apply(img)
		}
	})
}

func (l *ThumbnailLoader) download(url string) (image.Image, error) {
	data, err := l.source.Thumbnail(l.ctx, url)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
