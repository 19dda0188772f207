// Package api exposes the memory service over HTTP. Request and response
// bodies are explicit per-endpoint schemas; fields are validated before any
// call reaches the core.
package api

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/recallstack/recall/pkg/ingest"
	"github.com/recallstack/recall/pkg/maintain"
	"github.com/recallstack/recall/pkg/retrieval"
)

// Handlers holds the HTTP endpoints and their service dependencies.
type Handlers struct {
	ingest    *ingest.Service
	retrieval *retrieval.Service
	maintain  *maintain.Service
	logger    *zap.Logger
	version   string
}

// NewHandlers creates the endpoint set.
func NewHandlers(ingestSvc *ingest.Service, retrievalSvc *retrieval.Service, maintainSvc *maintain.Service, logger *zap.Logger, version string) *Handlers {
	return &Handlers{
		ingest:    ingestSvc,
		retrieval: retrievalSvc,
		maintain:  maintainSvc,
		logger:    logger,
		version:   version,
	}
}

// resolveTag picks the container tag from the two accepted request shapes,
// falling back to the default container.
func resolveTag(tag string, tags []string) string {
	if tag != "" {
		return tag
	}
	if len(tags) > 0 && tags[0] != "" {
		return tags[0]
	}
	return ingest.DefaultContainerTag
}

// HandleHealth implements GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

type addRequest struct {
	Content       string                 `json:"content"`
	ContainerTag  string                 `json:"containerTag"`
	ContainerTags []string               `json:"containerTags"`
	Metadata      map[string]interface{} `json:"metadata"`
	CustomID      string                 `json:"customId"`
}

type addResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

// HandleAdd implements POST /api/v1/add.
func (h *Handlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.ingest.Create(r.Context(), ingest.CreateRequest{
		ContainerTag: resolveTag(req.ContainerTag, req.ContainerTags),
		Content:      req.Content,
		Metadata:     req.Metadata,
		CustomID:     req.CustomID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, addResponse{ID: id, Created: true})
}

type searchRequest struct {
	Q             string   `json:"q"`
	Query         string   `json:"query"`
	ContainerTag  string   `json:"containerTag"`
	ContainerTags []string `json:"containerTags"`
	Limit         int      `json:"limit"`
}

type searchResultItem struct {
	ID         string                 `json:"id"`
	Memory     string                 `json:"memory"`
	Similarity float64                `json:"similarity"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

type searchResponse struct {
	Results []searchResultItem `json:"results"`
	Timing  int64              `json:"timing"`
	Total   int                `json:"total"`
}

func toResultItems(results []retrieval.Result) []searchResultItem {
	items := make([]searchResultItem, 0, len(results))
	for _, res := range results {
		items = append(items, searchResultItem{
			ID:         res.Memory.ID,
			Memory:     res.Memory.Content,
			Similarity: res.Score,
			Metadata:   res.Memory.Metadata,
			CreatedAt:  res.Memory.CreatedAt,
			UpdatedAt:  res.Memory.UpdatedAt,
		})
	}
	return items
}

// HandleSearch implements POST /api/v1/search/memories.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	query := req.Q
	if query == "" {
		query = req.Query
	}
	tag := resolveTag(req.ContainerTag, req.ContainerTags)

	results, err := h.retrieval.Search(r.Context(), []string{tag}, query, req.Limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	items := toResultItems(results)
	writeJSON(w, http.StatusOK, searchResponse{
		Results: items,
		Timing:  time.Since(start).Milliseconds(),
		Total:   len(items),
	})
}

type profilePayload struct {
	Static  []string `json:"static"`
	Dynamic []string `json:"dynamic"`
}

type profileResponse struct {
	Profile       profilePayload     `json:"profile"`
	SearchResults []searchResultItem `json:"searchResults,omitempty"`
}

// HandleProfile implements GET /api/v1/profile.
func (h *Handlers) HandleProfile(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	tag := params.Get("containerTag")
	if tag == "" {
		tag = ingest.DefaultContainerTag
	}
	query := params.Get("q")

	threshold := retrieval.DefaultProfileThreshold
	if raw := params.Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeBadRequest(w, "threshold must be a number")
			return
		}
		threshold = parsed
	}

	result, err := h.retrieval.Profile(r.Context(), tag, query, threshold)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := profileResponse{
		Profile: profilePayload{
			Static:  emptyIfNil(result.Static),
			Dynamic: emptyIfNil(result.Dynamic),
		},
	}
	if result.SearchResults != nil {
		resp.SearchResults = toResultItems(result.SearchResults)
	}
	writeJSON(w, http.StatusOK, resp)
}

func emptyIfNil(facts []string) []string {
	if facts == nil {
		return []string{}
	}
	return facts
}

type forgetRequest struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	ContainerTag string `json:"containerTag"`
}

type forgetResponse struct {
	ID        string `json:"id"`
	Forgotten bool   `json:"forgotten"`
}

// HandleForget implements POST /api/v1/memories/forget.
func (h *Handlers) HandleForget(w http.ResponseWriter, r *http.Request) {
	var req forgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	forgotten, err := h.maintain.Forget(r.Context(), maintain.ForgetRequest{
		ContainerTag: req.ContainerTag,
		ID:           req.ID,
		Content:      req.Content,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, forgetResponse{ID: req.ID, Forgotten: forgotten})
}

type listRequest struct {
	ContainerTags []string `json:"containerTags"`
	Limit         int      `json:"limit"`
	Page          int      `json:"page"`
}

type listMemoryItem struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type listPagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type listResponse struct {
	Memories   []listMemoryItem `json:"memories"`
	Pagination listPagination   `json:"pagination"`
}

// HandleList implements POST /api/v1/documents/list.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tags := req.ContainerTags
	if len(tags) == 0 {
		tags = []string{ingest.DefaultContainerTag}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	records, total, err := h.retrieval.ListActive(r.Context(), tags, limit, (page-1)*limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	memories := make([]listMemoryItem, 0, len(records))
	for _, rec := range records {
		memories = append(memories, listMemoryItem{
			ID:        rec.ID,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	writeJSON(w, http.StatusOK, listResponse{
		Memories: memories,
		Pagination: listPagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

type deleteBulkRequest struct {
	IDs []string `json:"ids"`
}

type deleteBulkResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleDeleteBulk implements POST /api/v1/documents/deleteBulk.
func (h *Handlers) HandleDeleteBulk(w http.ResponseWriter, r *http.Request) {
	var req deleteBulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	deleted, err := h.maintain.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteBulkResponse{Deleted: deleted})
}

type promoteRequest struct {
	ContainerTag string `json:"containerTag"`
	Fact         string `json:"fact"`
}

type promoteResponse struct {
	Promoted bool `json:"promoted"`
}

// HandlePromote implements POST /api/v1/profile/promote.
func (h *Handlers) HandlePromote(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	promoted, err := h.maintain.Promote(r.Context(), req.ContainerTag, req.Fact)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, promoteResponse{Promoted: promoted})
}

type statsResponse struct {
	Memories   int64    `json:"memories"`
	Facts      int64    `json:"facts"`
	Containers []string `json:"containers"`
}

// HandleStats implements GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.maintain.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Memories:   stats.Memories,
		Facts:      stats.Facts,
		Containers: stats.Containers,
	})
}

type wipeResponse struct {
	Wiped        bool   `json:"wiped"`
	ContainerTag string `json:"containerTag"`
}

// HandleWipeContainer implements DELETE /api/v1/container/{tag}.
func (h *Handlers) HandleWipeContainer(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")

	if err := h.maintain.WipeContainer(r.Context(), tag); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, wipeResponse{Wiped: true, ContainerTag: tag})
}
