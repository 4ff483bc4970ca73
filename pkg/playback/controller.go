/*
Copyright © 2024 Alexandre Pires

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/a13labs/iptvdeck/pkg/catalog"
	"github.com/a13labs/iptvdeck/pkg/logger"
)

// State is the playback state machine position.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Status is a snapshot of the controller for the playback surface.
type Status struct {
	State   string           `json:"state"`
	Channel *catalog.Channel `json:"channel,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Controller owns exactly one current channel and serializes source swaps
// against the Player. There is no queue of pending selections: the latest
// request always wins, and late callbacks from a superseded source
// assignment are detected through a generation counter and ignored.
type Controller struct {
	mu          sync.Mutex
	player      Player
	settleDelay time.Duration

	state   State
	current *catalog.Channel
	message string

	// generation increments per selection; assignedGen records the
	// generation whose source actually reached the player.
	generation  uint64
	assignedGen uint64
	swapTimer   *time.Timer
}

// NewController wires the controller to a player. The settle delay is the
// fixed pause between clearing the old source and assigning the new one, so
// the player can discard in-flight loading before the next source begins.
func NewController(player Player, settleDelay time.Duration) *Controller {
	c := &Controller{
		player:      player,
		settleDelay: settleDelay,
		state:       StateIdle,
	}
	player.OnFirstMetadata(c.handleFirstMetadata)
	player.OnError(c.handleMediaError)
	return c
}

// SelectChannel makes channel current and swaps the player's source to it.
// The channel is recorded immediately, before playback succeeds, so the
// catalog highlight and info panel reflect the selection right away.
// Selecting while a previous channel is loading or playing discards its
// in-flight state.
func (c *Controller) SelectChannel(channel catalog.Channel) {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.current = &channel
	c.state = StateLoading
	c.message = ""
	if c.swapTimer != nil {
		c.swapTimer.Stop()
	}
	c.mu.Unlock()

	logger.Infof("Selecting channel: %s", channel.DisplayName)

	if !c.player.IsPaused() {
		c.player.Pause()
	}
	c.player.ClearSource()

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.swapTimer = time.AfterFunc(c.settleDelay, func() {
		c.mu.Lock()
		if generation != c.generation {
			c.mu.Unlock()
			return
		}
		c.assignedGen = generation
		c.mu.Unlock()
		c.player.AssignSource(channel.URL, SourceType(channel.URL))
	})
}

// Retry re-runs the swap sequence for the current channel.
func (c *Controller) Retry() bool {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return false
	}
	channel := *c.current
	c.mu.Unlock()
	c.SelectChannel(channel)
	return true
}

// CurrentChannel returns the current channel, independent of whether
// playback has succeeded yet.
func (c *Controller) CurrentChannel() *catalog.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	channel := *c.current
	return &channel
}

// State returns the state machine position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns a snapshot for the playback surface.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := Status{
		State:   c.state.String(),
		Message: c.message,
	}
	if c.current != nil {
		channel := *c.current
		status.Channel = &channel
	}
	return status
}

// Close cancels a pending source swap.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.swapTimer != nil {
		c.swapTimer.Stop()
		c.swapTimer = nil
	}
}

// handleFirstMetadata runs on the player's first-metadata signal. A signal
// from a superseded source assignment is ignored.
func (c *Controller) handleFirstMetadata() {
	c.mu.Lock()
	if c.current == nil || c.assignedGen != c.generation {
		c.mu.Unlock()
		return
	}
	generation := c.generation
	c.mu.Unlock()

	c.player.RequestLayoutResize()
	err := c.player.Play()

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		// A newer selection took over while playback was starting.
		return
	}
	if err != nil {
		if errors.Is(err, ErrPlayAborted) {
			// Expected race: the user picked another channel before this
			// one finished loading.
			return
		}
		c.state = StateErrored
		c.message = describePlayError(err)
		logger.Warnf("Playback failed: %v", err)
		return
	}
	c.state = StatePlaying
}

// handleMediaError runs on the player's asynchronous error signal.
func (c *Controller) handleMediaError(code ErrorCode, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateErrored
	c.message = describeMediaError(code)
	if detail != "" {
		logger.Warnf("Player error (%d): %s", code, detail)
	}
}
