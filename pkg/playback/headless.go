package playback

import (
	"fmt"
	"sync"

	"github.com/a13labs/iptvdeck/pkg/upstream"
	"github.com/elnormous/contenttype"
)

// HeadlessPlayer stands in when no media engine is attached. Sources are
// accepted immediately and, when an upstream connection is configured,
// Play probes the stream URL over HTTP so unreachable, forbidden or missing
// streams still surface the right failure category. A nil connection
// disables probing and reports every source as playable.
type HeadlessPlayer struct {
	mu      sync.Mutex
	conn    *upstream.Connection
	source  string
	paused  bool
	assigns uint64

	metadataFn func()
	errorFn    func(code ErrorCode, detail string)
}

func NewHeadlessPlayer(conn *upstream.Connection) *HeadlessPlayer {
	return &HeadlessPlayer{
		conn:   conn,
		paused: true,
	}
}

func (p *HeadlessPlayer) AssignSource(url string, mediaType contenttype.MediaType) {
	p.mu.Lock()
	p.source = url
	p.assigns++
	fn := p.metadataFn
	p.mu.Unlock()

	// A headless source has no decoder to wait on: the first-metadata
	// signal fires as soon as the source is accepted.
	if fn != nil {
		go fn()
	}
}

func (p *HeadlessPlayer) ClearSource() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = ""
}

func (p *HeadlessPlayer) Play() error {
	p.mu.Lock()
	source := p.source
	assigns := p.assigns
	conn := p.conn
	p.mu.Unlock()

	if source == "" {
		return ErrPlayAborted
	}

	if conn != nil {
		_, status, _, err := conn.Fetch(source)

		p.mu.Lock()
		superseded := p.assigns != assigns || p.source != source
		p.mu.Unlock()
		if superseded {
			return ErrPlayAborted
		}

		if err != nil {
			return fmt.Errorf("stream unreachable: %w", err)
		}
		if status/100 != 2 {
			if status == 403 || status == 404 {
				return fmt.Errorf("stream returned HTTP %d", status)
			}
			return fmt.Errorf("%w: http response code (%d)", ErrUnsupportedSource, status)
		}
	}

	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	return nil
}

func (p *HeadlessPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

func (p *HeadlessPlayer) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *HeadlessPlayer) OnFirstMetadata(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metadataFn = fn
}

func (p *HeadlessPlayer) OnError(fn func(code ErrorCode, detail string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errorFn = fn
}

// RequestLayoutResize is a no-op: there is no layout without a renderer.
func (p *HeadlessPlayer) RequestLayoutResize() {}
