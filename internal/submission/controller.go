// Package submission drives one presentation request at a time against
// POST /api/presentation and exposes the result as a small state machine:
//
//	idle --submit--> loading --success--> done
//	loading --failure--> error
//	done|error --submit--> loading
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/httpclient"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
)

// Path is the backend route decks are requested from.
const Path = "/api/presentation"

var (
	ErrEmptyTopic = errors.New("submission: topic is empty")
	ErrInFlight   = errors.New("submission: a request is already in flight")
)

type Options struct {
	// Endpoint is the backend base URL, e.g. http://localhost:8080.
	Endpoint string
	// HTTPClient defaults to a client with no timeout and no retries.
	HTTPClient *httpclient.Client
	Logger     *logger.Logger
}

type Controller struct {
	url    string
	client *httpclient.Client
	logger *logger.Logger

	mu        sync.Mutex
	state     State
	listeners []func(State)
}

func New(opts Options) *Controller {
	client := opts.HTTPClient
	if client == nil {
		client = httpclient.New(httpclient.Options{})
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{
		url:    strings.TrimRight(opts.Endpoint, "/") + Path,
		client: client,
		logger: log,
		state:  idle(),
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnChange registers fn to be called with every new state. Listeners run
// on the submitting goroutine, after the state has been stored.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Submit sends req and blocks until the backend answers. A blank topic or a
// request already in flight is rejected with ErrEmptyTopic or ErrInFlight
// and leaves the state untouched. Otherwise Submit returns nil and the
// outcome is reported through State.
func (c *Controller) Submit(ctx context.Context, req presentation.Request) error {
	if !req.HasTopic() {
		return ErrEmptyTopic
	}

	c.mu.Lock()
	if c.state.Status == StatusLoading {
		c.mu.Unlock()
		return ErrInFlight
	}
	listeners := c.storeLocked(loading())
	c.mu.Unlock()
	notify(listeners, loading())

	link, err := c.send(ctx, req)
	if err != nil {
		c.logger.Warn("presentation request failed", "url", c.url, "error", err)
		c.set(failed())
		return nil
	}

	c.logger.Info("presentation ready", "url", c.url, "link", link)
	c.set(done(link))
	return nil
}

func (c *Controller) send(ctx context.Context, req presentation.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.PostJSON(ctx, c.url, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out presentation.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Presentation, nil
}

func (c *Controller) set(s State) {
	c.mu.Lock()
	listeners := c.storeLocked(s)
	c.mu.Unlock()
	notify(listeners, s)
}

func (c *Controller) storeLocked(s State) []func(State) {
	c.state = s
	return append([]func(State){}, c.listeners...)
}

func notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
