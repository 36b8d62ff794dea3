package ui

import (
	"sync"

	"fygallery/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// ImageLoader fetches the resource behind an image URL and hands it to done
// on the fyne goroutine.
type ImageLoader interface {
	Load(url string, done func(fyne.Resource, error))
}

// cachingLoader loads local files and http(s) URLs in the background and keeps
// every resource it fetched.
type cachingLoader struct {
	mu    sync.Mutex
	cache map[string]fyne.Resource
}

func newCachingLoader() *cachingLoader {
	return &cachingLoader{cache: make(map[string]fyne.Resource)}
}

func (l *cachingLoader) Load(url string, done func(fyne.Resource, error)) {
	l.mu.Lock()
	res, ok := l.cache[url]
	l.mu.Unlock()
	if ok {
		done(res, nil)
		return
	}
	go func() {
		res, err := fetchResource(url)
		if err == nil {
			l.mu.Lock()
			l.cache[url] = res
			l.mu.Unlock()
		}
		fyne.Do(func() { done(res, err) })
	}()
}

func fetchResource(url string) (fyne.Resource, error) {
	if path, err := service.LocalPath(url); err == nil {
		return fyne.LoadResourceFromPath(path)
	}
	return fyne.LoadResourceFromURLString(url)
}

// tappableImage is a grid tile: an image that reports taps.
type tappableImage struct {
	widget.BaseWidget
	image    *canvas.Image
	url      string
	onTapped func()
}

func newTappableImage(onTapped func()) *tappableImage {
	ti := &tappableImage{
		image:    &canvas.Image{FillMode: canvas.ImageFillContain},
		onTapped: onTapped,
	}
	ti.ExtendBaseWidget(ti)
	return ti
}

// CreateRenderer is a mandatory method for a Fyne widget.
func (t *tappableImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.image)
}

// Tapped is called when the widget is tapped.
func (t *tappableImage) Tapped(_ *fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped()
	}
}

// SetURL starts loading url; a slower earlier load never overwrites a newer one.
func (t *tappableImage) SetURL(loader ImageLoader, url string, onError func(error)) {
	t.url = url
	loader.Load(url, func(res fyne.Resource, err error) {
		if t.url != url {
			return
		}
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		t.SetResource(res)
	})
}

// SetResource updates the image resource and refreshes.
func (t *tappableImage) SetResource(res fyne.Resource) {
	t.image.Resource = res
	t.image.Image = nil
	t.image.File = ""
	canvas.Refresh(t.image)
}

// SetMinSize sets the minimum size of the tappable image.
func (t *tappableImage) SetMinSize(size fyne.Size) {
	t.image.SetMinSize(size)
}
