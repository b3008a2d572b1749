package forum

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestGeneratorSeedShape(t *testing.T) {
	g := NewSeededGenerator(1)
	topics := g.Seed(demoNow)

	counts := map[string]int{}
	for _, topic := range topics {
		counts[topic.Category]++
		assertTopicShape(t, topic, seedShape)
		assert.Contains(t, seedPool.titles, topic.Title)
		assert.Contains(t, seedPool.authors, topic.Author)
		assert.Contains(t, seedPool.messages, topic.Message)
	}
	require.Len(t, counts, len(Categories))
	for _, cat := range Categories {
		assert.GreaterOrEqual(t, counts[cat], 4, cat)
		assert.LessOrEqual(t, counts[cat], 5, cat)
	}
}

func assertTopicShape(t *testing.T, topic Topic, shape topicShape) {
	t.Helper()
	nowMs := demoNow.UnixMilli()
	assert.GreaterOrEqual(t, topic.CreatedAt, nowMs-shape.maxAge.Milliseconds())
	assert.LessOrEqual(t, topic.CreatedAt, nowMs)
	assert.Less(t, topic.Views, shape.maxViews)
	assert.GreaterOrEqual(t, len(topic.Replies), shape.minReplies)
	assert.LessOrEqual(t, len(topic.Replies), shape.maxReplies)

	last := topic.CreatedAt
	for _, r := range topic.Replies {
		assert.GreaterOrEqual(t, r.CreatedAt, last)
		assert.LessOrEqual(t, r.CreatedAt, nowMs)
		last = r.CreatedAt
	}
	assert.Equal(t, last, topic.UpdatedAt)
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewSeededGenerator(99).Seed(demoNow)
	b := NewSeededGenerator(99).Seed(demoNow)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Title, b[i].Title)
		assert.Equal(t, a[i].CreatedAt, b[i].CreatedAt)
		assert.Equal(t, a[i].Views, b[i].Views)
		assert.Equal(t, len(a[i].Replies), len(b[i].Replies))
	}
}

func TestGeneratorTopUp(t *testing.T) {
	g := NewSeededGenerator(5)
	existing := []Topic{
		{ID: "a", Category: "Tech"},
		{ID: "b", Category: "Tech"},
		{ID: "c", Category: "Tech"},
		{ID: "d", Category: "Tech"},
		{ID: "e", Category: "Price"},
	}

	topics, mutated := g.TopUp(slices.Clone(existing), MinTopicsPerCategory, demoNow)
	assert.True(t, mutated)
	assert.Equal(t, existing, topics[:len(existing)])

	counts := map[string]int{}
	for _, topic := range topics {
		counts[topic.Category]++
	}
	assert.Equal(t, 4, counts["Tech"])
	assert.Equal(t, 4, counts["Price"])
	for _, cat := range Categories {
		assert.Equal(t, MinTopicsPerCategory, counts[cat], cat)
	}
	for _, topic := range topics[len(existing):] {
		assertTopicShape(t, topic, topUpShape)
	}

	again, mutated := g.TopUp(topics, MinTopicsPerCategory, demoNow)
	assert.False(t, mutated)
	assert.Len(t, again, len(topics))
}

func TestGeneratorActivity(t *testing.T) {
	g := NewSeededGenerator(8)
	assert.Empty(t, mustActivity(g, nil))

	base := g.Seed(demoNow.Add(-time.Hour))
	nowMs := demoNow.UnixMilli()
	sawReply, sawTopic := false, false
	for i := 0; i < 50; i++ {
		before := cloneTopics(base)
		after, _ := g.Activity(cloneTopics(base), demoNow)
		require.GreaterOrEqual(t, len(after), len(before))
		require.LessOrEqual(t, len(after), len(before)+1)

		for j := range before {
			assert.GreaterOrEqual(t, after[j].Views, before[j].Views)
			assert.LessOrEqual(t, after[j].Views, before[j].Views+2)
			assert.GreaterOrEqual(t, after[j].UpdatedAt, before[j].UpdatedAt)
			if len(after[j].Replies) > len(before[j].Replies) {
				sawReply = true
				assert.Equal(t, nowMs, after[j].UpdatedAt)
			}
		}
		if len(after) > len(before) {
			sawTopic = true
			fresh := after[len(after)-1]
			assert.Equal(t, nowMs, fresh.CreatedAt)
			assert.Less(t, fresh.Views, 20)
			assert.Contains(t, Categories, fresh.Category)
		}
	}
	assert.True(t, sawReply, "expected at least one injected reply")
	assert.True(t, sawTopic, "expected at least one injected topic")
}

func mustActivity(g *Generator, topics []Topic) []Topic {
	out, _ := g.Activity(topics, demoNow)
	return out
}

func cloneTopics(topics []Topic) []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = t.clone()
	}
	return out
}
