package model

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"chatterm/config"
)

// ConnectionProbeMessage is the user message sent by CheckConnection.
const ConnectionProbeMessage = "Hello"

// subscriberBuffer is the number of snapshots a slow subscriber may lag behind
// before older snapshots are dropped in favour of the latest.
const subscriberBuffer = 16

// ErrControllerStopped is returned by Dispatch once Run has returned.
var ErrControllerStopped = errors.New("controller stopped")

// Controller is the conversation state machine.
//
// Run owns the state: intents and completion results are applied one at a time in
// arrival order on the Run goroutine. Only the network calls run elsewhere.
type Controller struct {
	completer Completer
	store     SettingsStore
	templates PromptTemplates

	intents chan dispatch
	results chan completionResult
	probes  chan connectionResult
	stopped chan struct{}

	state atomic.Pointer[State]

	mu      sync.Mutex
	subs    map[int]chan State
	nextSub int
	closed  bool

	// Owned by the Run goroutine.
	generation uint64
}

type dispatch struct {
	intent Intent
	done   chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithPromptTemplates overrides the templates used in templated prompt mode.
func WithPromptTemplates(templates PromptTemplates) Option {
	return func(c *Controller) {
		c.templates = templates
	}
}

// NewController creates a Controller whose initial settings are read from store.
// If store is nil or Load fails, DefaultSettings are used.
func NewController(completer Completer, store SettingsStore, opts ...Option) *Controller {
	settings := DefaultSettings()
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Controller] Failed to load settings, using defaults: %v", err)
			}
		} else {
			settings = loaded
		}
	}

	c := &Controller{
		completer: completer,
		store:     store,
		templates: DefaultPromptTemplates(),
		intents:   make(chan dispatch),
		results:   make(chan completionResult),
		probes:    make(chan connectionResult),
		stopped:   make(chan struct{}),
		subs:      make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}

	initial := NewState(settings)
	c.state.Store(&initial)
	return c
}

// State returns the latest snapshot. It is safe to call from any goroutine.
func (c *Controller) State() State {
	return *c.state.Load()
}

// Subscribe returns a channel that receives a snapshot after every transition,
// starting with the current one. A subscriber that falls behind loses intermediate
// snapshots but always receives the most recent one. The channel is closed when
// cancel is called or Run returns.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, subscriberBuffer)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.State()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Run processes intents until ctx is done. It must be called exactly once.
// In-flight completions are bound to ctx and abandoned when it is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.stopped)
	defer c.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-c.intents:
			c.handle(ctx, d.intent)
			close(d.done)
		case r := <-c.results:
			c.finishSend(r)
		case r := <-c.probes:
			c.finishCheck(r)
		}
	}
}

// Dispatch hands intent to the Run loop and waits until its synchronous effect
// has been applied. The network call started by Send is not awaited.
func (c *Controller) Dispatch(ctx context.Context, intent Intent) error {
	d := dispatch{intent: intent, done: make(chan struct{})}

	select {
	case c.intents <- d:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrControllerStopped
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) handle(ctx context.Context, intent Intent) {
	s := c.State()

	switch in := intent.(type) {
	case UpdateInput:
		s.Draft = in.Text
		c.publish(s)

	case Send:
		c.send(ctx, s)

	case ClearChat:
		// Responses to sends issued before the clear are discarded on arrival.
		c.generation++
		s.Transcript = nil
		s.LastError = ""
		c.publish(s)

	case UpdateSetting:
		s.Settings = s.Settings.Apply(in.Update)
		c.save(s.Settings)
		c.publish(s)

	case ToggleSettingsPanel:
		s.PanelVisible = !s.PanelVisible
		c.publish(s)

	case CheckConnection:
		c.checkConnection(ctx, s)

	default:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Controller] Ignoring unknown intent %T", intent)
		}
	}
}

func (c *Controller) send(ctx context.Context, s State) {
	text := strings.TrimSpace(s.Draft)
	if text == "" || s.Busy {
		return
	}

	s = s.withMessage(newMessage(RoleUser, text))
	s.Draft = ""
	s.LastError = ""
	s.Busy = true
	c.publish(s)

	// The system message is rebuilt from the settings current at this send.
	messages := make([]Message, 0, len(s.Transcript)+1)
	messages = append(messages, newMessage(RoleSystem, BuildSystemPrompt(s.Settings, c.templates)))
	messages = append(messages, s.Transcript...)
	params := s.Settings.CompletionParams()

	result := completionResult{
		requestID:  uuid.NewString(),
		generation: c.generation,
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Controller] Send %s: %d messages, generation %d, max_tokens=%v, temperature=%.2f",
			result.requestID, len(messages), result.generation, formatMaxTokens(params.MaxTokens), params.Temperature)
	}

	go func() {
		start := time.Now()
		result.content, result.err = c.completer.Complete(ctx, messages, params)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Controller] Send %s finished in %v (err=%v)", result.requestID, time.Since(start), result.err)
		}

		select {
		case c.results <- result:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) finishSend(r completionResult) {
	s := c.State()
	s.Busy = false

	switch {
	case r.generation != c.generation:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Controller] Discarding stale response %s (generation %d, current %d)",
				r.requestID, r.generation, c.generation)
		}
	case r.err != nil:
		s.LastError = FailureMessage(r.err)
	case strings.TrimSpace(r.content) == "":
		s.LastError = FailureMessage(ErrEmptyCompletion)
	default:
		s = s.withMessage(newMessage(RoleAssistant, r.content))
	}

	c.publish(s)
}

func (c *Controller) checkConnection(ctx context.Context, s State) {
	if s.Connection == ConnectionChecking {
		return
	}

	s.Connection = ConnectionChecking
	s.ConnectionReply = ""
	c.publish(s)

	messages := []Message{
		newMessage(RoleSystem, DefaultSystemPrompt),
		newMessage(RoleUser, ConnectionProbeMessage),
	}

	go func() {
		content, err := c.completer.Complete(ctx, messages, CompletionParams{Temperature: DefaultTemperature})
		select {
		case c.probes <- connectionResult{content: content, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) finishCheck(r connectionResult) {
	s := c.State()

	switch {
	case r.err != nil:
		s.Connection = ConnectionFailed
		s.ConnectionReply = FailureMessage(r.err)
	case strings.TrimSpace(r.content) == "":
		s.Connection = ConnectionFailed
		s.ConnectionReply = FailureMessage(ErrEmptyCompletion)
	default:
		s.Connection = ConnectionOK
		s.ConnectionReply = r.content
	}

	c.publish(s)
}

// save persists settings. Failures are logged and otherwise ignored.
func (c *Controller) save(settings Settings) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(settings); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Controller] Failed to save settings: %v", err)
	}
}

func (c *Controller) publish(s State) {
	c.state.Store(&s)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- s:
		default:
			// Full: drop the oldest snapshot so the newest always gets through.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

func (c *Controller) closeSubscribers() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

func formatMaxTokens(n *int) any {
	if n == nil {
		return "unlimited"
	}
	return *n
}
