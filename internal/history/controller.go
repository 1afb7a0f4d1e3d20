// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history implements the controller behind the chat history list:
// loading summaries, optimistic delete with exact rollback and local
// title search.
package history

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/notify"
	"github.com/jeranaias/polychat/internal/optimistic"
)

// Gateway is the subset of the backend the controller calls.
type Gateway interface {
	ListChats(ctx context.Context) ([]api.ChatSummary, error)
	DeleteChat(ctx context.Context, id string) (*api.DeleteResult, error)
}

// Translator renders notification text.
type Translator interface {
	T(key string, args ...any) string
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

// WithTranslator localizes the delete notifications.
func WithTranslator(tr Translator) Option {
	return func(c *Controller) { c.tr = tr }
}

// WithClock overrides time.Now for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns the conversation list of one history view.
type Controller struct {
	gw       Gateway
	notifier notify.Poster
	tr       Translator
	logger   *zap.Logger
	now      func() time.Time

	items *optimistic.Collection[model.Conversation]

	mu      sync.Mutex
	loading bool
	query   string
}

// New creates a controller. It reports Loading until the first Load ends.
func New(gw Gateway, notifier notify.Poster, opts ...Option) *Controller {
	c := &Controller{
		gw:       gw,
		notifier: notifier,
		logger:   zap.NewNop(),
		now:      time.Now,
		items:    optimistic.NewCollection[model.Conversation](),
		loading:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the summaries. A failure leaves an empty list and is
// returned for logging only.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	items, err := c.gw.ListChats(ctx)
	if err != nil {
		c.logger.Warn("failed to load chat history", zap.Error(err))
		c.items.Replace(nil)
		return err
	}

	convs := make([]model.Conversation, 0, len(items))
	for _, it := range items {
		convs = append(convs, c.fromSummary(it))
	}
	c.items.Replace(convs)
	return nil
}

// fromSummary applies the list defaults: title "Chat", created now,
// updated when created, model gemini.
func (c *Controller) fromSummary(s api.ChatSummary) model.Conversation {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = model.DefaultConversationTitle
	}
	created := s.CreatedAt.Time
	if created.IsZero() {
		created = c.now()
	}
	updated := s.UpdatedAt.Time
	if updated.IsZero() {
		updated = created
	}
	return model.Conversation{
		ID:        s.ID.String(),
		Title:     title,
		CreatedAt: created,
		UpdatedAt: updated,
		Model:     model.ModelOr(s.Model, model.DefaultModel),
	}
}

// Delete removes a conversation locally, then on the backend. When the
// backend refuses, the list is restored exactly as it was.
func (c *Controller) Delete(ctx context.Context, id string) error {
	err := optimistic.Run(ctx, c.items, optimistic.Mutation[model.Conversation]{
		Apply: optimistic.Without(model.ConversationID, id),
		Commit: func(ctx context.Context) error {
			_, err := c.gw.DeleteChat(ctx, id)
			return err
		},
	})
	if err != nil {
		c.logger.Warn("failed to delete chat", zap.String("chat_id", id), zap.Error(err))
		msg := err.Error()
		if msg == "" {
			msg = c.text(locale.HistoryDeleteFailed, "Failed to delete chat")
		}
		c.post(func(p notify.Poster) { p.Error(msg) })
		return err
	}

	c.post(func(p notify.Poster) { p.Success(c.text(locale.HistoryDeleted, "Deleted successfully")) })
	return nil
}

// Search filters the loaded list by a case-insensitive title substring.
// It never calls the backend.
func (c *Controller) Search(query string) []model.Conversation {
	return Filter(c.items.Snapshot(), query)
}

// Filter returns the conversations whose title contains query, comparing
// Unicode case-folded text. Whitespace in query is significant.
func Filter(convs []model.Conversation, query string) []model.Conversation {
	if query == "" {
		return convs
	}

	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]model.Conversation, 0, len(convs))
	for _, conv := range convs {
		if strings.Contains(fold.String(conv.Title), needle) {
			out = append(out, conv)
		}
	}
	return out
}

// SetQuery stores the search query shown by the view.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

// Query returns the current search query.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Visible returns the list filtered by the current query.
func (c *Controller) Visible() []model.Conversation {
	return c.Search(c.Query())
}

// Conversations returns the full loaded list.
func (c *Controller) Conversations() []model.Conversation {
	return c.items.Snapshot()
}

// Loading reports whether Load has not finished yet.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) text(key, fallback string) string {
	if c.tr == nil {
		return fallback
	}
	return c.tr.T(key)
}

func (c *Controller) post(fn func(notify.Poster)) {
	if c.notifier != nil {
		fn(c.notifier)
	}
}
