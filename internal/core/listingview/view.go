// Package listingview держит состояние одного экземпляра страницы объявления:
// загрузку, производные подписи, флаг "ссылка скопирована" и доступ к контакту.
package listingview

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"

	"golang.org/x/sync/singleflight"
)

const DefaultShareLinkResetDelay = 2 * time.Second

var (
	ErrViewClosed = errors.New("listing view is closed")
	// ErrSuperseded возвращается загрузке, результат которой устарел:
	// пока шло чтение, представление переключили на другой id.
	ErrSuperseded = errors.New("listing load superseded by another id")
)

type Status string

const (
	StatusLoading  Status = "loading"
	StatusLoaded   Status = "loaded"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

func (s Status) terminal() bool {
	return s == StatusLoaded || s == StatusNotFound || s == StatusFailed
}

// State - снимок состояния представления.
type State struct {
	ListingID       string
	Listing         *domain.Listing
	Loading         bool
	Status          Status
	Err             error
	ShareLinkCopied bool
}

type Config struct {
	Loader    usecases_port.LoadListingUseCasePort
	Clipboard port.ClipboardPort
	// BaseURL - публичный адрес сайта, из него строится ссылка "поделиться".
	BaseURL             string
	ShareLinkResetDelay time.Duration
}

type stopper interface {
	Stop() bool
}

type View struct {
	loader     usecases_port.LoadListingUseCasePort
	clipboard  port.ClipboardPort
	baseURL    string
	resetDelay time.Duration
	afterFunc  func(time.Duration, func()) stopper

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu              sync.Mutex
	listingID       string
	listing         *domain.Listing
	status          Status
	err             error
	shareLinkCopied bool
	shareTimer      stopper
	shareGen        uint64
	closed          bool
}

func New(cfg Config) *View {
	delay := cfg.ShareLinkResetDelay
	if delay <= 0 {
		delay = DefaultShareLinkResetDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		loader:     cfg.Loader,
		clipboard:  cfg.Clipboard,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		resetDelay: delay,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		ctx:    ctx,
		cancel: cancel,
		status: StatusLoading,
	}
}

type loadResult struct {
	listing *domain.Listing
	err     error
}

// Load загружает объявление. Чтение привязано только к id: повторный вызов
// с тем же id после завершения не читает хранилище, одновременные вызовы
// делят одно чтение. Каждый вызывающий перестает ждать по своему ctx.
// Новый id сбрасывает состояние.
func (v *View) Load(ctx context.Context, listingID string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "ListingView",
		"listing_id": listingID,
	})

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrViewClosed
	}
	if listingID != v.listingID {
		v.resetLocked(listingID)
	}
	if strings.TrimSpace(listingID) == "" {
		v.status, v.err = StatusNotFound, domain.ErrInvalidListingID
		v.mu.Unlock()
		return nil, domain.ErrInvalidListingID
	}
	if v.status.terminal() {
		listing, status, err := v.listing, v.status, v.err
		v.mu.Unlock()
		logger.Debug("Listing already resolved, skipping read", port.Fields{"status": string(status)})
		return listing, err
	}
	v.mu.Unlock()

	ch := v.group.DoChan(listingID, func() (interface{}, error) {
		// Чтение общее для всех ждущих, поэтому отмена первого вызывающего
		// его не прерывает. Отменяет только Close.
		readCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(v.ctx, cancel)
		defer stop()

		listing, err := v.loader.Execute(readCtx, listingID)
		return loadResult{listing: listing, err: err}, nil
	})

	select {
	case res := <-ch:
		return v.apply(listingID, res.Val.(loadResult), logger)
	case <-ctx.Done():
		logger.Warn("Caller gave up waiting for listing", port.Fields{"error": ctx.Err().Error()})
		return nil, ctx.Err()
	case <-v.ctx.Done():
		return nil, ErrViewClosed
	}
}

// apply переносит результат чтения в состояние, если он еще актуален.
func (v *View) apply(listingID string, res loadResult, logger port.LoggerPort) (*domain.Listing, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		logger.Debug("View closed before read resolved, result discarded", nil)
		return nil, ErrViewClosed
	}
	if v.listingID != listingID {
		return nil, ErrSuperseded
	}
	if v.status.terminal() {
		// другой участник singleflight уже применил тот же результат
		return v.listing, v.err
	}

	switch {
	case res.err == nil:
		v.listing, v.status, v.err = res.listing, StatusLoaded, nil
	case errors.Is(res.err, context.Canceled), errors.Is(res.err, context.DeadlineExceeded):
		// состояние остается loading, повторный Load прочитает снова
		return nil, res.err
	case errors.Is(res.err, domain.ErrListingNotFound), errors.Is(res.err, domain.ErrInvalidListingID):
		v.status, v.err = StatusNotFound, res.err
	default:
		if !errors.Is(res.err, domain.ErrFetchFailed) {
			res.err = errors.Join(domain.ErrFetchFailed, res.err)
		}
		v.status, v.err = StatusFailed, res.err
	}

	logger.Info("Listing view resolved", port.Fields{"status": string(v.status)})
	return v.listing, v.err
}

func (v *View) resetLocked(listingID string) {
	v.stopShareTimerLocked()
	v.listingID = listingID
	v.listing = nil
	v.status = StatusLoading
	v.err = nil
	v.shareLinkCopied = false
}

func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		ListingID:       v.listingID,
		Listing:         v.listing,
		Loading:         v.status == StatusLoading,
		Status:          v.status,
		Err:             v.err,
		ShareLinkCopied: v.shareLinkCopied,
	}
}

// ShareURL - внешний адрес страницы объявления.
func (v *View) ShareURL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shareURLLocked()
}

func (v *View) shareURLLocked() string {
	return v.baseURL + "/listings/" + url.PathEscape(v.listingID)
}

// CopyShareLink кладет ссылку в буфер обмена и поднимает флаг на resetDelay.
// Каждый вызов перезапускает таймер, поэтому флаг держится resetDelay
// после последнего вызова.
func (v *View) CopyShareLink() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.listingID == "" {
		v.mu.Unlock()
		return domain.ErrInvalidListingID
	}
	link := v.shareURLLocked()
	v.mu.Unlock()

	if err := v.clipboard.WriteAll(link); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}

	v.stopShareTimerLocked()
	v.shareLinkCopied = true
	v.shareGen++
	gen := v.shareGen
	v.shareTimer = v.afterFunc(v.resetDelay, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		// поколение защищает от таймера, который успел сработать до Stop
		if gen != v.shareGen || v.closed {
			return
		}
		v.shareLinkCopied = false
		v.shareTimer = nil
	})
	return nil
}

func (v *View) stopShareTimerLocked() {
	if v.shareTimer != nil {
		v.shareTimer.Stop()
		v.shareTimer = nil
	}
	v.shareGen++
}

// Presentation собирает производные данные для рендера. session может быть nil.
func (v *View) Presentation(session *domain.Session) (*Presentation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.status {
	case StatusLoaded:
	case StatusLoading:
		return nil, ErrNotLoaded
	default:
		return nil, v.err
	}

	p := Present(v.listing, session)
	p.ShareURL = v.shareURLLocked()
	p.ShareLinkCopied = v.shareLinkCopied
	return p, nil
}

// Close отменяет незавершенное чтение и таймер. После Close состояние не меняется.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.stopShareTimerLocked()
	v.mu.Unlock()

	v.cancel()
}
