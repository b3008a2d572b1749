package forum

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// MinTopicsPerCategory is the floor TopUp fills every category to.
const MinTopicsPerCategory = 4

const day = 24 * time.Hour

// contentPool is the text a generated topic or reply is drawn from.
type contentPool struct {
	titles   []string
	authors  []string
	messages []string
	replies  []string
}

var seedPool = contentPool{
	titles: []string{
		"Best price for onion this week?",
		"Low-cost drip irrigation tips",
		"Organic pest control for tomato leaf miner",
		"Share your cotton yield numbers",
		"Looking for tractor rental in village",
		"Weather-based sowing suggestions",
		"Soil testing kits – which one to buy?",
	},
	authors: []string{
		"Ravi (Maharashtra)",
		"Anita (Punjab)",
		"Kiran (Karnataka)",
		"Meera (UP)",
		"Suresh (TN)",
		"Pooja (MP)",
	},
	messages: []string{
		"What rates are you getting in the local mandi? Any contacts?",
		"I built a DIY setup with 16mm laterals. Sharing my learnings.",
		"Neem + sticky traps helped me, but open to better ideas.",
		"Posting my data and asking how to improve next season.",
		"If anyone has reliable contacts, please share numbers.",
		"Monsoon is late here, should I delay by a week?",
		"Confused between two brands, need reviews from real users.",
	},
	replies: []string{
		"We got slightly better price yesterday; wait a day.",
		"Try spacing emitters at 30cm for sandy soil.",
		"Use pheromone traps, they helped control the population.",
		"Great insights, thanks for sharing numbers.",
		"I can DM you a contact who is reliable.",
		"Check IMD forecast; a small delay may help.",
	},
}

var topUpPool = contentPool{
	titles: []string{
		"Best price for onion this week?",
		"Low-cost drip irrigation tips",
		"Organic pest control for tomato",
		"Share your yield numbers",
		"Looking for equipment rental",
		"Weather-based sowing suggestions",
		"Soil testing kits – which one to buy?",
	},
	authors: seedPool.authors,
	messages: []string{
		"What rates are you getting in the local mandi?",
		"DIY setup learnings.",
		"Neem + traps helped me.",
		"Posting data for feedback.",
		"Share reliable contacts.",
		"Monsoon is late here, delay?",
		"Need reviews from real users.",
	},
	replies: []string{
		"We got better price yesterday.",
		"Try 30cm emitter spacing.",
		"Use pheromone traps.",
		"Great insights, thanks.",
		"I can DM you a contact.",
		"Check IMD forecast.",
	},
}

var activityReplyPool = contentPool{
	authors: seedPool.authors,
	replies: []string{
		"Agree with this, tried it last season.",
		"Sharing my notes in a reply below.",
		"Check the moisture before irrigating.",
		"Rates improved in evening session.",
		"Good point, also watch for caterpillars.",
	},
}

var activityTopicPool = contentPool{
	titles:   []string{"Quick update from field", "Need advice urgently", "Market rates today", "Small hack that helped", "Tool review"},
	authors:  []string{"Nikhil (RJ)", "Divya (MH)", "Vikram (KA)", "Geeta (BR)"},
	messages: []string{"Posting a short update.", "What would you do in this case?", "These are the rates near me.", "This tweak saved water.", "Sharing pros/cons after a week."},
}

// topicShape bounds the randomized parts of a generated topic.
type topicShape struct {
	maxAge     time.Duration
	maxViews   int
	minReplies int
	maxReplies int
	replyGap   time.Duration
}

var (
	seedShape  = topicShape{maxAge: 14 * day, maxViews: 300, minReplies: 1, maxReplies: 4, replyGap: day}
	topUpShape = topicShape{maxAge: 7 * day, maxViews: 200, minReplies: 1, maxReplies: 3, replyGap: 12 * time.Hour}
)

// Activity probabilities.
const (
	viewBumpChance = 0.3
	replyChance    = 0.35
	newTopicChance = 0.2
)

// Generator produces synthetic demo content. With a fixed seed its output is
// reproducible apart from identifiers. It is not safe for concurrent use.
type Generator struct {
	rng   *rand.Rand
	newID func() string
}

// NewGenerator builds a generator over src. A nil src seeds from the runtime.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src), newID: uuid.NewString}
}

// NewSeededGenerator is NewGenerator over a PCG source seeded with seed.
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed))
}

// Seed returns 4 or 5 topics for every category.
func (g *Generator) Seed(now time.Time) []Topic {
	var topics []Topic
	for _, cat := range Categories {
		count := MinTopicsPerCategory + g.rng.IntN(2)
		for i := 0; i < count; i++ {
			topics = append(topics, g.topic(cat, now, seedPool, seedShape))
		}
	}
	return topics
}

// TopUp appends topics to every category holding fewer than minimum. It reports
// whether anything was added.
func (g *Generator) TopUp(topics []Topic, minimum int, now time.Time) ([]Topic, bool) {
	have := make(map[string]int)
	for _, t := range topics {
		have[t.Category]++
	}
	mutated := false
	for _, cat := range Categories {
		for i := have[cat]; i < minimum; i++ {
			topics = append(topics, g.topic(cat, now, topUpPool, topUpShape))
			mutated = true
		}
	}
	return topics, mutated
}

// Activity applies the random view bumps, reply and new topic that make the
// forum look busy. It reports whether anything changed.
func (g *Generator) Activity(topics []Topic, now time.Time) ([]Topic, bool) {
	if len(topics) == 0 {
		return topics, false
	}
	mutated := false

	for i := range topics {
		if g.rng.Float64() < viewBumpChance {
			if inc := g.rng.IntN(3); inc > 0 {
				topics[i].Views += inc
				mutated = true
			}
		}
	}

	if g.rng.Float64() < replyChance {
		idx := g.rng.IntN(len(topics))
		reply := Reply{
			ID:        g.newID(),
			Author:    pick(g.rng, activityReplyPool.authors),
			Message:   pick(g.rng, activityReplyPool.replies),
			CreatedAt: now.UnixMilli(),
		}
		topics[idx].Replies = append(topics[idx].Replies, reply)
		if reply.CreatedAt > topics[idx].UpdatedAt {
			topics[idx].UpdatedAt = reply.CreatedAt
		}
		mutated = true
	}

	if g.rng.Float64() < newTopicChance {
		ms := now.UnixMilli()
		topics = append(topics, Topic{
			ID:        g.newID(),
			Title:     pick(g.rng, activityTopicPool.titles),
			Category:  pick(g.rng, Categories),
			Author:    pick(g.rng, activityTopicPool.authors),
			Message:   pick(g.rng, activityTopicPool.messages),
			CreatedAt: ms,
			UpdatedAt: ms,
			Views:     g.rng.IntN(20),
			Replies:   []Reply{},
		})
		mutated = true
	}

	return topics, mutated
}

func (g *Generator) topic(category string, now time.Time, pool contentPool, shape topicShape) Topic {
	created := now.UnixMilli() - g.rng.Int64N(shape.maxAge.Milliseconds())
	t := Topic{
		ID:        g.newID(),
		Title:     pick(g.rng, pool.titles),
		Category:  category,
		Author:    pick(g.rng, pool.authors),
		Message:   pick(g.rng, pool.messages),
		CreatedAt: created,
		UpdatedAt: created,
		Views:     g.rng.IntN(shape.maxViews),
		Replies:   []Reply{},
	}
	count := shape.minReplies + g.rng.IntN(shape.maxReplies-shape.minReplies+1)
	last := created
	for r := 0; r < count; r++ {
		// replies never land after now
		last = min(last+g.rng.Int64N(shape.replyGap.Milliseconds()), now.UnixMilli())
		t.Replies = append(t.Replies, Reply{
			ID:        g.newID(),
			Author:    pick(g.rng, pool.authors),
			Message:   pick(g.rng, pool.replies),
			CreatedAt: last,
		})
	}
	t.UpdatedAt = last
	return t
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
