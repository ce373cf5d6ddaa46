// Package testutil serves an in-process stand-in for the voting backend so
// adapters and the assembled app can be tested over real HTTP.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type Unit struct {
	ID         string
	PromptText string
	Models     []string
}

type Vote struct {
	SessionID      string `json:"session_id"`
	PairID         string `json:"pair_id"`
	WinnerModel    string `json:"winner_model"`
	ReactionTimeMs int64  `json:"reaction_time_ms"`
}

type Counts struct {
	Creates  int
	Statuses int
	Nexts    int
	Votes    int
}

// Backend hands every session the same ordered units. A unit is re-served
// until it receives a vote.
type Backend struct {
	URL string

	mu         sync.Mutex
	units      []Unit
	legacy     bool
	sessions   map[string]string
	position   map[string]int
	votes      []Vote
	counts     Counts
	createSeq  int
	failCreate []int
	failNext   []int
	failVote   []int
}

func NewBackend(t testing.TB, units ...Unit) *Backend {
	t.Helper()
	b := &Backend{
		units:    units,
		sessions: map[string]string{},
		position: map[string]int{},
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Post("/sessions", b.createSession)
	r.Get("/sessions/{id}", b.sessionStatus)
	r.Get("/pair/next", b.nextPair)
	r.Post("/votes", b.submitVote)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	b.URL = server.URL
	return b
}

// UseLegacyShape switches /pair/next to the image_a/image_b payload.
func (b *Backend) UseLegacyShape() {
	b.mu.Lock()
	b.legacy = true
	b.mu.Unlock()
}

func (b *Backend) AddSession(id, status string) {
	b.mu.Lock()
	b.sessions[id] = status
	b.mu.Unlock()
}

func (b *Backend) SetStatus(id, status string) {
	b.AddSession(id, status)
}

// Forget drops a session so later requests for it answer 404.
func (b *Backend) Forget(id string) {
	b.mu.Lock()
	delete(b.sessions, id)
	b.mu.Unlock()
}

// FailCreate, FailNext and FailVote queue status codes returned by the next
// calls to that endpoint.
func (b *Backend) FailCreate(codes ...int) {
	b.mu.Lock()
	b.failCreate = append(b.failCreate, codes...)
	b.mu.Unlock()
}

func (b *Backend) FailNext(codes ...int) {
	b.mu.Lock()
	b.failNext = append(b.failNext, codes...)
	b.mu.Unlock()
}

func (b *Backend) FailVote(codes ...int) {
	b.mu.Lock()
	b.failVote = append(b.failVote, codes...)
	b.mu.Unlock()
}

func (b *Backend) Votes() []Vote {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Vote(nil), b.votes...)
}

func (b *Backend) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

func (b *Backend) createSession(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	b.counts.Creates++
	if code, ok := pop(&b.failCreate); ok {
		b.mu.Unlock()
		writeDetail(w, code, "session creation failed")
		return
	}
	b.createSeq++
	id := fmt.Sprintf("sess-%d", b.createSeq)
	b.sessions[id] = "active"
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (b *Backend) sessionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	b.counts.Statuses++
	status, ok := b.sessions[id]
	b.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session_id": id, "status": status})
}

func (b *Backend) nextPair(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	b.mu.Lock()
	b.counts.Nexts++
	if code, ok := pop(&b.failNext); ok {
		b.mu.Unlock()
		writeDetail(w, code, "next pair failed")
		return
	}
	status, ok := b.sessions[id]
	if !ok {
		b.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Session not found")
		return
	}
	if status != "active" {
		b.mu.Unlock()
		writeDetail(w, http.StatusUnprocessableEntity, "Session is "+status)
		return
	}
	pos := b.position[id]
	total := len(b.units)
	legacy := b.legacy
	var unit *Unit
	if pos < total {
		u := b.units[pos]
		unit = &u
	}
	b.mu.Unlock()

	if unit == nil {
		writeJSON(w, http.StatusOK, map[string]any{"is_terminal": true, "index": total, "total": total})
		return
	}
	if legacy {
		writeJSON(w, http.StatusOK, legacyPayload(*unit, pos, total))
		return
	}
	writeJSON(w, http.StatusOK, canonicalPayload(*unit, pos, total))
}

func (b *Backend) submitVote(w http.ResponseWriter, r *http.Request) {
	vote := Vote{}
	if err := json.NewDecoder(r.Body).Decode(&vote); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid vote payload")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts.Votes++
	if code, ok := pop(&b.failVote); ok {
		writeDetail(w, code, "vote rejected")
		return
	}
	if _, ok := b.sessions[vote.SessionID]; !ok {
		writeDetail(w, http.StatusNotFound, "Session not found")
		return
	}
	b.votes = append(b.votes, vote)
	if pos := b.position[vote.SessionID]; pos < len(b.units) && b.units[pos].ID == vote.PairID {
		b.position[vote.SessionID] = pos + 1
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func canonicalPayload(unit Unit, pos, total int) map[string]any {
	images := make([]map[string]string, 0, len(unit.Models))
	for idx, model := range unit.Models {
		images = append(images, image(unit, idx, model))
	}
	return map[string]any{
		"id":          unit.ID,
		"prompt_text": unit.PromptText,
		"images":      images,
		"index":       pos,
		"total":       total,
		"is_terminal": false,
	}
}

func legacyPayload(unit Unit, pos, total int) map[string]any {
	payload := map[string]any{
		"pair_id":     unit.ID,
		"prompt_text": unit.PromptText,
		"progress":    map[string]int{"done": pos, "total": total},
	}
	if len(unit.Models) > 0 {
		payload["image_a"] = image(unit, 0, unit.Models[0])
	}
	if len(unit.Models) > 1 {
		payload["image_b"] = image(unit, 1, unit.Models[1])
	}
	return payload
}

func image(unit Unit, idx int, model string) map[string]string {
	id := fmt.Sprintf("%s-%d", unit.ID, idx)
	return map[string]string{"id": id, "url": "https://images.test/" + id + ".png", "model": model}
}

func pop(queue *[]int) (int, bool) {
	if len(*queue) == 0 {
		return 0, false
	}
	code := (*queue)[0]
	*queue = (*queue)[1:]
	return code, true
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
