// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/notify"
	"github.com/jeranaias/polychat/internal/optimistic"
	"github.com/jeranaias/polychat/internal/router"
)

// Validation errors, returned before any network call.
var (
	ErrEmptyContent  = errors.New("message is empty")
	ErrSendInFlight  = errors.New("a message is already being sent")
	ErrInvalidChatID = errors.New("invalid chat id")
	ErrUnknownModel  = errors.New("unknown model")
)

// State is the controller's position in the conversation lifecycle.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateSending
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Gateway is the subset of the backend the controller calls.
type Gateway interface {
	GetChat(ctx context.Context, id string) (*api.ChatDetail, error)
	SendMessage(ctx context.Context, req api.SendMessageRequest) (*api.SendMessageResponse, error)
}

// Navigator moves the application between locations.
type Navigator interface {
	Navigate(path string)
	Replace(path string)
}

// LanguageSource supplies the answer language for Submit.
type LanguageSource interface {
	Language() model.Lang
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLanguage sets the language source used by Submit.
func WithLanguage(src LanguageSource) Option {
	return func(c *Controller) { c.lang = src }
}

// WithModel sets the initially selected model.
func WithModel(m model.AIModel) Option {
	return func(c *Controller) {
		if m.Valid() {
			c.model = m
		}
	}
}

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the messages of the open conversation.
// All methods are safe for concurrent use.
type Controller struct {
	gw       Gateway
	nav      Navigator
	notifier notify.Poster
	lang     LanguageSource
	logger   *zap.Logger
	now      func() time.Time

	messages *optimistic.Collection[model.ChatMessage]

	mu      sync.Mutex
	chatID  string
	title   string
	model   model.AIModel
	input   string
	busy    bool
	loading bool
	// epoch changes whenever the open conversation is switched; results
	// of calls issued under an older epoch are dropped
	epoch uint64
}

// New creates a controller in the Empty state with the default model.
func New(gw Gateway, nav Navigator, notifier notify.Poster, opts ...Option) *Controller {
	c := &Controller{
		gw:       gw,
		nav:      nav,
		notifier: notifier,
		logger:   zap.NewNop(),
		now:      time.Now,
		messages: optimistic.NewCollection[model.ChatMessage](),
		model:    model.DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount opens the conversation chatID, or an empty one when chatID is "".
//
// Mounting the conversation that is already open does nothing, so the
// route change that follows adopting a new chat id does not reload it.
// A failed fetch leaves an empty message list.
func (c *Controller) Mount(ctx context.Context, chatID string) error {
	chatID = strings.TrimSpace(chatID)

	c.mu.Lock()
	if chatID != "" && chatID == c.chatID {
		c.mu.Unlock()
		return nil
	}
	c.epoch++
	epoch := c.epoch
	c.chatID = chatID
	c.title = ""
	c.messages.Replace(nil)

	if chatID == "" {
		c.loading = false
		c.mu.Unlock()
		return nil
	}
	if !validChatID(chatID) {
		c.loading = false
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrInvalidChatID, chatID)
	}
	c.loading = true
	c.mu.Unlock()

	detail, err := c.gw.GetChat(ctx, chatID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		return nil
	}
	c.loading = false
	if err != nil {
		c.logger.Warn("failed to load chat", zap.String("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("load chat %s: %w", chatID, err)
	}

	msgs := make([]model.ChatMessage, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		msgs = append(msgs, c.fromDetail(m))
	}
	c.messages.Replace(msgs)
	c.title = detail.Title
	if m, ok := model.ParseModel(detail.Model); ok {
		c.model = m
	}
	return nil
}

// Reload fetches the open conversation again, even though it is mounted.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	id := c.chatID
	c.chatID = ""
	c.mu.Unlock()
	return c.Mount(ctx, id)
}

// fromDetail normalizes one server message.
func (c *Controller) fromDetail(m api.MessageDetail) model.ChatMessage {
	role := model.RoleUser
	if m.Role == string(model.RoleAssistant) {
		role = model.RoleAssistant
	}
	ts := m.Time()
	if ts.IsZero() {
		ts = c.now()
	}
	msg := model.ChatMessage{
		ID:        m.ID.String(),
		Role:      role,
		Content:   m.Content,
		Timestamp: ts,
	}
	if mdl, ok := model.ParseModel(m.Model); ok {
		msg.Model = mdl
	}
	return msg
}

// Send posts content to the open conversation, or creates one.
//
// The user message appears immediately. On success the assistant reply is
// appended and returned; a newly created conversation id is adopted and the
// location is replaced with it. On failure the provisional message is
// removed, an error notification is posted and the error is returned.
func (c *Controller) Send(ctx context.Context, content string, m model.AIModel, lang model.Lang) (*model.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrSendInFlight
	}
	if m == "" {
		m = c.model
	}
	if !m.Valid() {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, m)
	}
	chatID := c.chatID
	if chatID != "" && !validChatID(chatID) {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrInvalidChatID, chatID)
	}
	c.busy = true
	c.input = ""
	epoch := c.epoch

	provisional := model.NewUserMessage(content, m)
	provisional.Timestamp = c.now()

	// The provisional message lands under the same lock that guards the
	// epoch, so a conversation switch either precedes it or clears it.
	var resp *api.SendMessageResponse
	pending := optimistic.Begin(c.messages, optimistic.Mutation[model.ChatMessage]{
		Apply: optimistic.Appending(provisional),
		Commit: func(ctx context.Context) error {
			var err error
			resp, err = c.gw.SendMessage(ctx, api.SendMessageRequest{
				ChatID:  chatID,
				Content: content,
				Model:   m.String(),
				Lang:    lang.String(),
			})
			return err
		},
		Revert: optimistic.RemoveByKey(model.MessageID, provisional.ID),
	})
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	err := pending.Commit(ctx)
	if err != nil {
		c.logger.Warn("send failed", zap.String("chat_id", chatID), zap.Error(err))
		if c.notifier != nil {
			c.notifier.Error(failureText(err))
		}
		return nil, err
	}

	reply := model.ChatMessage{
		ID:        resp.AssistantMessage.ID.String(),
		Role:      model.RoleAssistant,
		Content:   resp.AssistantMessage.Content,
		Timestamp: c.now(),
		Model:     model.ModelOr(resp.AssistantMessage.Model, m),
	}

	c.mu.Lock()
	if epoch != c.epoch {
		// The user switched conversations while waiting
		c.mu.Unlock()
		return &reply, nil
	}
	adopted := ""
	if c.chatID == "" && resp.ChatID != "" {
		c.chatID = resp.ChatID.String()
		adopted = c.chatID
	}
	if resp.ChatTitle != "" {
		c.title = resp.ChatTitle
	}
	c.messages.Append(reply)
	c.mu.Unlock()

	if adopted != "" && c.nav != nil {
		c.nav.Replace(router.ChatPath(adopted))
	}
	return &reply, nil
}

// CanSubmit reports whether the input buffer holds text and no send is in
// flight.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.busy && strings.TrimSpace(c.input) != ""
}

// Submit sends the input buffer with the selected model in the current
// language.
func (c *Controller) Submit(ctx context.Context) (*model.ChatMessage, error) {
	lang := model.DefaultLang
	if c.lang != nil {
		lang = c.lang.Language()
	}
	return c.Send(ctx, c.Input(), c.Model(), lang)
}

// NewChat clears the conversation and navigates to the id-less chat
// location. It makes no backend call.
func (c *Controller) NewChat() {
	c.mu.Lock()
	c.epoch++
	c.chatID = ""
	c.title = ""
	c.loading = false
	c.messages.Replace(nil)
	c.mu.Unlock()

	if c.nav != nil {
		c.nav.Navigate(router.ChatPath(""))
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SelectModel changes the model used by Submit.
func (c *Controller) SelectModel(m model.AIModel) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownModel, m)
	}
	c.mu.Lock()
	c.model = m
	c.mu.Unlock()
	return nil
}

// CycleModel selects the next registered model and returns it.
func (c *Controller) CycleModel() model.AIModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model.NextModel(c.model)
	return c.model
}

// Model returns the selected model.
func (c *Controller) Model() model.AIModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// SetInput replaces the input buffer.
func (c *Controller) SetInput(s string) {
	c.mu.Lock()
	c.input = s
	c.mu.Unlock()
}

// Input returns the input buffer.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Messages returns a copy of the conversation in append order.
func (c *Controller) Messages() []model.ChatMessage {
	return c.messages.Snapshot()
}

// ChatID returns the open conversation id, or "" before one exists.
func (c *Controller) ChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatID
}

// Title returns the conversation title, when known.
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

// Busy reports whether a send is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Loading reports whether a conversation fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.busy:
		return StateSending
	case c.chatID == "" && c.messages.Len() == 0:
		return StateEmpty
	default:
		return StateLoaded
	}
}

func validChatID(id string) bool {
	_, err := strconv.ParseInt(id, 10, 64)
	return err == nil
}

func failureText(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to send message"
}
