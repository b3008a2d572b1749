// forum/handlers.go
package forum

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"
)

const authorSessionKey = "author"

// TopicSummary is a topic as shown in the listing.
type TopicSummary struct {
	Topic
	ReplyCount int    `json:"replyCount"`
	CreatedAgo string `json:"createdAgo"`
	ActiveAgo  string `json:"activeAgo"`
}

// TopicsViewData is the data structure for the topics list page.
type TopicsViewData struct {
	Topics      []TopicSummary `json:"topics"`
	Total       int            `json:"total"`
	Pagination  PaginationData `json:"pagination"`
	SearchQuery string         `json:"searchQuery"`
	Category    string         `json:"category"`
}

// ReplyView is a reply with its relative time.
type ReplyView struct {
	Reply
	CreatedAgo string `json:"createdAgo"`
}

// TopicViewData is the data structure for the single topic page.
type TopicViewData struct {
	Topic      Topic       `json:"topic"`
	Replies    []ReplyView `json:"replies"`
	CreatedAgo string      `json:"createdAgo"`
}

type Handlers struct {
	store   *Store
	admin   *Admin
	log     *zap.Logger
	now     func() time.Time
	Session *scs.SessionManager
}

// NewHandlers wires the API to store. A nil admin disables the admin routes.
func NewHandlers(store *Store, admin *Admin, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	session := scs.New()
	session.Lifetime = 30 * 24 * time.Hour
	session.Cookie.Name = "forum_session"
	return &Handlers{
		store:   store,
		admin:   admin,
		log:     logger,
		now:     store.now,
		Session: session,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("GET /api/topics", h.listTopics)
	mux.HandleFunc("POST /api/topics", h.createTopic)
	mux.HandleFunc("GET /api/topics/{id}", h.showTopic)
	mux.HandleFunc("POST /api/topics/{id}/replies", h.createReply)
	mux.HandleFunc("POST /api/admin/seed", h.requireAdmin(h.seed))
	mux.HandleFunc("POST /api/admin/activity", h.requireAdmin(h.simulateActivity))
}

// Handler returns the routes wrapped in session handling.
func (h *Handlers) Handler() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h.Session.LoadAndSave(mux)
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	cats := append([]string{AllCategories}, Categories...)
	h.writeJSON(w, http.StatusOK, cats)
}

// listTopics handles searching and paginating all topics.
func (h *Handlers) listTopics(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	searchQuery := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	topics, err := h.store.ListTopics(r.Context())
	if err != nil {
		h.log.Error("failed to list topics", zap.Error(err))
		http.Error(w, "Failed to retrieve topics", http.StatusInternalServerError)
		return
	}

	filtered := FilterTopics(topics, category, searchQuery)
	pageTopics, pagination := Paginate(filtered, page, PageSize)
	now := h.now()
	summaries := make([]TopicSummary, 0, len(pageTopics))
	for _, t := range pageTopics {
		summaries = append(summaries, TopicSummary{
			Topic:      t,
			ReplyCount: len(t.Replies),
			CreatedAgo: RelativeTime(t.Created(), now),
			ActiveAgo:  RelativeTime(t.Updated(), now),
		})
	}

	h.writeJSON(w, http.StatusOK, TopicsViewData{
		Topics:      summaries,
		Total:       len(filtered),
		Pagination:  pagination,
		SearchQuery: searchQuery,
		Category:    category,
	})
}

// showTopic counts a view and returns the topic with its replies.
func (h *Handlers) showTopic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	topic, err := h.store.IncrementViews(r.Context(), id)
	if err != nil {
		h.log.Error("failed to get topic", zap.String("id", id), zap.Error(err))
		http.Error(w, "Failed to retrieve topic", http.StatusInternalServerError)
		return
	}
	if topic == nil {
		http.NotFound(w, r)
		return
	}
	h.writeJSON(w, http.StatusOK, h.topicView(*topic))
}

func (h *Handlers) createTopic(w http.ResponseWriter, r *http.Request) {
	var in NewTopic
	if err := decodeBody(w, r, &in); err != nil {
		http.Error(w, "Failed to parse request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Message) == "" {
		http.Error(w, "Title and message are required fields", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = DefaultCategory
	}
	in.Author = h.author(r, in.Author)

	topic, err := h.store.CreateTopic(r.Context(), in)
	if err != nil {
		h.log.Error("failed to create topic", zap.Error(err))
		http.Error(w, "Failed to create topic", http.StatusInternalServerError)
		return
	}
	h.log.Info("topic created", zap.String("id", topic.ID), zap.String("category", topic.Category))
	w.Header().Set("Location", "/api/topics/"+topic.ID)
	h.writeJSON(w, http.StatusCreated, h.topicView(*topic))
}

func (h *Handlers) createReply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var in NewReply
	if err := decodeBody(w, r, &in); err != nil {
		http.Error(w, "Failed to parse request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		http.Error(w, "Message is a required field", http.StatusBadRequest)
		return
	}
	in.Author = h.author(r, in.Author)

	topic, err := h.store.AddReply(r.Context(), id, in)
	if err != nil {
		h.log.Error("failed to add reply", zap.String("id", id), zap.Error(err))
		http.Error(w, "Failed to create reply", http.StatusInternalServerError)
		return
	}
	if topic == nil {
		http.NotFound(w, r)
		return
	}
	h.writeJSON(w, http.StatusCreated, h.topicView(*topic))
}

func (h *Handlers) seed(w http.ResponseWriter, r *http.Request) {
	added, err := h.store.Seed(r.Context())
	if err != nil {
		h.log.Error("failed to seed forum", zap.Error(err))
		http.Error(w, "Failed to seed forum", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (h *Handlers) simulateActivity(w http.ResponseWriter, r *http.Request) {
	changed, err := h.store.SimulateActivity(r.Context())
	if err != nil {
		h.log.Error("failed to simulate activity", zap.Error(err))
		http.Error(w, "Failed to simulate activity", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

func (h *Handlers) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.admin == nil {
			http.Error(w, "Admin access is disabled", http.StatusForbidden)
			return
		}
		if err := h.admin.Authorize(r); err != nil {
			if errors.Is(err, ErrAdminDenied) {
				h.log.Warn("rejected admin request", zap.String("path", r.URL.Path))
			} else {
				h.log.Error("failed to check admin password", zap.Error(err))
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="forum admin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// author resolves the display name for a post and remembers it in the
// session for the next one.
func (h *Handlers) author(r *http.Request, given string) string {
	name := strings.TrimSpace(given)
	if name == "" {
		name = h.Session.GetString(r.Context(), authorSessionKey)
	}
	if name == "" {
		return DefaultAuthor
	}
	h.Session.Put(r.Context(), authorSessionKey, name)
	return name
}

func (h *Handlers) topicView(t Topic) TopicViewData {
	now := h.now()
	replies := make([]ReplyView, 0, len(t.Replies))
	for _, rep := range t.Replies {
		replies = append(replies, ReplyView{Reply: rep, CreatedAgo: RelativeTime(rep.Created(), now)})
	}
	return TopicViewData{
		Topic:      t,
		Replies:    replies,
		CreatedAgo: RelativeTime(t.Created(), now),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("failed to write response", zap.Error(err))
	}
}
