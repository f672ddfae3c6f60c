package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"investmate/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	criteria *models.SearchCriteria
	calls    int
}

func (f *fakeExtractor) Extract(ctx context.Context, question string) *models.SearchCriteria {
	f.calls++
	return f.criteria
}

type fakeSearcher struct {
	results    []*models.Property
	err        error
	lastFilter models.PropertyFilter
}

func (f *fakeSearcher) Search(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	f.lastFilter = filter
	return f.results, f.err
}

type fakeConversations struct {
	mu       sync.Mutex
	created  []*models.Conversation
	messages []*models.Message
	trimmed  chan struct{}
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{trimmed: make(chan struct{}, 1)}
}

func (f *fakeConversations) Create(ctx context.Context, conv *models.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, conv)
	return nil
}

func (f *fakeConversations) AppendMessages(ctx context.Context, messages []*models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages...)
	return nil
}

func (f *fakeConversations) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeConversations) ListForAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Conversation
	for _, c := range f.created {
		if c.AgentID != nil && *c.AgentID == agentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversations) TrimForAgent(ctx context.Context, agentID uuid.UUID, keep int) (int64, error) {
	select {
	case f.trimmed <- struct{}{}:
	default:
	}
	return 0, nil
}

func (f *fakeConversations) DeleteForAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.created))
	f.created = nil
	return n, nil
}

type fakeAnalytics struct {
	mu        sync.Mutex
	questions []string
	hours     []int
	mentions  [][]uuid.UUID
}

func (f *fakeAnalytics) IncrementQuestion(ctx context.Context, agentID uuid.UUID, question string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, question)
	return nil
}

func (f *fakeAnalytics) IncrementHour(ctx context.Context, agentID uuid.UUID, hour int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hours = append(f.hours, hour)
	return nil
}

func (f *fakeAnalytics) IncrementMentions(ctx context.Context, agentID uuid.UUID, propertyIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mentions = append(f.mentions, propertyIDs)
	return nil
}

func newTestChatService(extractor *fakeExtractor, searcher *fakeSearcher, conversations *fakeConversations) *ChatService {
	cache := NewCacheService(newFakeCriteriaStore(), time.Hour, 100, zap.NewNop())
	return NewChatService(extractor, cache, searcher, conversations, &fakeAnalytics{}, 10, zap.NewNop())
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc := newTestChatService(&fakeExtractor{}, &fakeSearcher{}, newFakeConversations())

	_, err := svc.Ask(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAskExtractsAndAnswers(t *testing.T) {
	city := "Tel Aviv"
	extractor := &fakeExtractor{criteria: &models.SearchCriteria{
		City:               &city,
		DescriptionFilters: []string{},
	}}
	searcher := &fakeSearcher{results: []*models.Property{
		{ID: uuid.New(), City: "Tel Aviv", Address: "Dizengoff 10", Price: 1800000},
	}}
	svc := newTestChatService(extractor, searcher, newFakeConversations())

	resp, err := svc.Ask(context.Background(), "apartments in Tel Aviv", nil)
	require.NoError(t, err)

	assert.Equal(t, "Found 1 properties in Tel Aviv.", resp.Message)
	assert.False(t, resp.Cached)
	assert.Len(t, resp.Results, 1)
	assert.NotEmpty(t, resp.ConversationID)
	require.NotNil(t, searcher.lastFilter.City)
	assert.Equal(t, "Tel Aviv", *searcher.lastFilter.City)
}

func TestAskSecondCallHitsCache(t *testing.T) {
	city := "Haifa"
	extractor := &fakeExtractor{criteria: &models.SearchCriteria{
		City:               &city,
		DescriptionFilters: []string{},
	}}
	svc := newTestChatService(extractor, &fakeSearcher{}, newFakeConversations())
	ctx := context.Background()

	first, err := svc.Ask(ctx, "flats in Haifa", nil)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Ask(ctx, "flats in Haifa", nil)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, extractor.calls)
}

func TestAskFailedExtractionIsNotCached(t *testing.T) {
	extractor := &fakeExtractor{criteria: &models.SearchCriteria{
		Err:                "provider down",
		DescriptionFilters: []string{},
	}}
	svc := newTestChatService(extractor, &fakeSearcher{}, newFakeConversations())
	ctx := context.Background()

	_, err := svc.Ask(ctx, "anything", nil)
	require.NoError(t, err)

	_, err = svc.Ask(ctx, "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, extractor.calls)
}

func TestAskScopesSearchToAgent(t *testing.T) {
	extractor := &fakeExtractor{criteria: &models.SearchCriteria{DescriptionFilters: []string{}}}
	searcher := &fakeSearcher{}
	svc := newTestChatService(extractor, searcher, newFakeConversations())

	agentID := uuid.New()
	_, err := svc.Ask(context.Background(), "my listings", &agentID)
	require.NoError(t, err)

	require.NotNil(t, searcher.lastFilter.AgentID)
	assert.Equal(t, agentID, *searcher.lastFilter.AgentID)
}

func TestAskSearchFailurePropagates(t *testing.T) {
	extractor := &fakeExtractor{criteria: &models.SearchCriteria{DescriptionFilters: []string{}}}
	searcher := &fakeSearcher{err: errors.New("db down")}
	svc := newTestChatService(extractor, searcher, newFakeConversations())

	_, err := svc.Ask(context.Background(), "anything", nil)
	assert.Error(t, err)
}

func TestAskRecordsConversation(t *testing.T) {
	extractor := &fakeExtractor{criteria: &models.SearchCriteria{DescriptionFilters: []string{}}}
	conversations := newFakeConversations()
	svc := newTestChatService(extractor, &fakeSearcher{}, conversations)

	agentID := uuid.New()
	resp, err := svc.Ask(context.Background(), "record me", &agentID)
	require.NoError(t, err)

	// Recording happens off the request path; trimming is its last step.
	select {
	case <-conversations.trimmed:
	case <-time.After(2 * time.Second):
		t.Fatal("conversation was not recorded in time")
	}

	conversations.mu.Lock()
	defer conversations.mu.Unlock()
	require.Len(t, conversations.created, 1)
	assert.Equal(t, resp.ConversationID, conversations.created[0].ID.String())
	require.Len(t, conversations.messages, 2)
	assert.Equal(t, models.RoleUser, conversations.messages[0].Role)
	assert.Equal(t, "record me", conversations.messages[0].Content)
	assert.Equal(t, models.RoleAssistant, conversations.messages[1].Role)
	assert.Equal(t, resp.Message, conversations.messages[1].Content)
}
