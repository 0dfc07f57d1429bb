package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ai-sidebar-be/internal/entity"
	"ai-sidebar-be/internal/repository/contract"
	"ai-sidebar-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

// --- In-memory fakes ---

type fakeConversationRepo struct {
	mu    sync.Mutex
	store map[string]*entity.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{store: make(map[string]*entity.Conversation)}
}

func (r *fakeConversationRepo) FindById(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.store[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Messages = append([]entity.Message(nil), c.Messages...)
	return &cp, nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Conversation, 0, len(r.store))
	for _, c := range r.store {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeConversationRepo) Save(ctx context.Context, c *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.Messages = append([]entity.Message(nil), c.Messages...)
	r.store[c.Id] = &cp
	return nil
}

func (r *fakeConversationRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.store)), nil
}

type fakeSettingRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{values: make(map[string]string)}
}

func (r *fakeSettingRepo) GetString(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *fakeSettingRepo) SetString(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newChatServiceForTest() (IChatService, *fakeConversationRepo, *fakeSettingRepo, *recordingPublisher) {
	conversations := newFakeConversationRepo()
	settings := newFakeSettingRepo()
	publisher := &recordingPublisher{}
	svc := NewChatService(conversations, settings, publisher, nopLogger{})
	return svc, conversations, settings, publisher
}

// --- Tests ---

func TestAppendExchangeCreatesConversation(t *testing.T) {
	svc, conversations, settings, publisher := newChatServiceForTest()
	ctx := context.Background()

	err := svc.AppendExchange(ctx, "what is this page?", "It is a blog.", "list-1")
	assert.NoError(t, err)

	c, err := conversations.FindById(ctx, "list-1")
	assert.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "Chat list-1", c.Name)
	assert.Len(t, c.Messages, 2)

	// A lazily created conversation becomes the active one.
	active, err := settings.GetString(ctx, contract.SettingActiveConversation)
	assert.NoError(t, err)
	assert.Equal(t, "list-1", active)

	assert.Equal(t, []string{events.TypeConversationCreated, events.TypeExchangeAppended}, publisher.types())
}

func TestAppendExchangeMessageShape(t *testing.T) {
	svc, conversations, _, _ := newChatServiceForTest()
	ctx := context.Background()

	err := svc.AppendExchange(ctx, "question", "answer", "list-1")
	assert.NoError(t, err)

	c, _ := conversations.FindById(ctx, "list-1")
	user, assistant := c.Messages[0], c.Messages[1]

	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Equal(t, "question", user.Content)
	assert.Equal(t, entity.RoleAssistant, assistant.Role)
	assert.Equal(t, "answer", assistant.Content)
	assert.NotEmpty(t, user.Id)
	assert.NotEmpty(t, assistant.Id)
	assert.NotEqual(t, user.Id, assistant.Id)
	assert.Equal(t, user.Timestamp+1, assistant.Timestamp)
}

func TestAppendExchangeIsAppendOnly(t *testing.T) {
	svc, conversations, _, publisher := newChatServiceForTest()
	ctx := context.Background()

	assert.NoError(t, svc.AppendExchange(ctx, "first q", "first a", "list-1"))
	assert.NoError(t, svc.AppendExchange(ctx, "second q", "second a", "list-1"))

	c, _ := conversations.FindById(ctx, "list-1")
	assert.Len(t, c.Messages, 4)
	assert.Equal(t, "first q", c.Messages[0].Content)
	assert.Equal(t, "second q", c.Messages[2].Content)

	// Only the first append creates the conversation.
	assert.Equal(t, []string{
		events.TypeConversationCreated,
		events.TypeExchangeAppended,
		events.TypeExchangeAppended,
	}, publisher.types())
}

func TestAppendExchangeConcurrentSameConversation(t *testing.T) {
	svc, conversations, _, _ := newChatServiceForTest()
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := svc.AppendExchange(ctx, fmt.Sprintf("q-%d", i), fmt.Sprintf("a-%d", i), "list-1")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// No append may be lost to read-modify-write interleaving.
	c, _ := conversations.FindById(ctx, "list-1")
	assert.Len(t, c.Messages, workers*2)
}

func TestCreateConversationStoresMetadataAndActivates(t *testing.T) {
	svc, conversations, settings, publisher := newChatServiceForTest()
	ctx := context.Background()

	err := svc.CreateConversation(ctx, "list-1", "https://example.com/post", "example.com")
	assert.NoError(t, err)

	c, _ := conversations.FindById(ctx, "list-1")
	assert.NotNil(t, c)
	assert.Equal(t, "Chat list-1", c.Name)
	assert.Equal(t, "https://example.com/post", c.PageURL)
	assert.Equal(t, "example.com", c.Domain)
	assert.Empty(t, c.Messages)

	active, _ := settings.GetString(ctx, contract.SettingActiveConversation)
	assert.Equal(t, "list-1", active)
	assert.Equal(t, []string{events.TypeConversationCreated, events.TypeActiveConversation}, publisher.types())
}

func TestCreateConversationExistingIdJustActivates(t *testing.T) {
	svc, conversations, _, publisher := newChatServiceForTest()
	ctx := context.Background()

	assert.NoError(t, svc.AppendExchange(ctx, "q", "a", "list-1"))
	assert.NoError(t, svc.CreateConversation(ctx, "list-1", "", ""))

	// Messages survive; no second created event.
	c, _ := conversations.FindById(ctx, "list-1")
	assert.Len(t, c.Messages, 2)
	assert.Equal(t, []string{
		events.TypeConversationCreated,
		events.TypeExchangeAppended,
		events.TypeActiveConversation,
	}, publisher.types())
}

func TestSetActiveConversationOverwrites(t *testing.T) {
	svc, _, settings, publisher := newChatServiceForTest()
	ctx := context.Background()

	assert.NoError(t, svc.SetActiveConversation(ctx, "list-1"))
	assert.NoError(t, svc.SetActiveConversation(ctx, "list-2"))

	active, _ := settings.GetString(ctx, contract.SettingActiveConversation)
	assert.Equal(t, "list-2", active)

	active, err := svc.ActiveConversation(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "list-2", active)

	assert.Equal(t, []string{events.TypeActiveConversation, events.TypeActiveConversation}, publisher.types())
}

func TestActiveConversationUnset(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()

	active, err := svc.ActiveConversation(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "", active)
}

func TestGetHistoryUnknownConversation(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()

	history, err := svc.GetHistory(context.Background(), "no-such-list")
	assert.NoError(t, err)
	assert.Empty(t, history)
}

func TestGetHistoryReturnsMessagesInOrder(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()
	ctx := context.Background()

	assert.NoError(t, svc.AppendExchange(ctx, "q1", "a1", "list-1"))
	assert.NoError(t, svc.AppendExchange(ctx, "q2", "a2", "list-1"))

	history, err := svc.GetHistory(ctx, "list-1")
	assert.NoError(t, err)
	assert.Len(t, history, 4)
	assert.Equal(t, "q1", history[0].Content)
	assert.Equal(t, "a1", history[1].Content)
	assert.Equal(t, "q2", history[2].Content)
	assert.Equal(t, "a2", history[3].Content)
}
