// internal/httpserver/server.go
//
// HTTP server wiring for the hanzimatch backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/phrases".
//   - Vocabulary endpoints: /sets, /sets/{id}, /tts.
//   - Game endpoints (optional auth): POST /game/new, /game/place, /game/reset, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (see auth.go).
//
// Notes:
//   - Engine state lives in the session store; SQLite only keeps history rows.
//   - History writes are best effort: failures are logged, never surfaced.
//   - Every engine call happens under the session's mutex.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/match"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/store"
)

// Server bundles router, in-memory session store, and DB handle.
type Server struct {
	r     *chi.Mux
	store store.Store
	db    *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
// phrases.Init must have succeeded before requests are served.
func New(st store.Store, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), store: st, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"hanzimatch-go","endpoints":["/health","/sets","POST /game/new","POST /game/place","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/phrases", func(w http.ResponseWriter, r *http.Request) {
		sets, count := phrases.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"sets": sets, "phrases": count})
	})

	s.mountSets(s.r)

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/place", s.handlePlace)
		r.Post("/game/reset", s.handleReset)
		r.Get("/game/{id}", s.handleGetGame)
	})

	// Daily Challenge: OPTIONAL AUTH (guests can play; results persisted on completion)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	SetID     int     `json:"setId"`
	SlotCount int     `json:"slotCount"` // 0 → DEFAULT_SLOTS
	Seed      *uint64 `json:"seed"`      // optional, makes the shuffle reproducible
}

type gameRes struct {
	GameID     string         `json:"gameId"`
	SetID      int            `json:"setId"`
	Placements int            `json:"placements"`
	Snapshot   match.Snapshot `json:"snapshot"`
}

// handleNewGame deals a new board from a vocabulary set and records an
// owner row (user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	set, err := phrases.Get(req.SetID)
	if err != nil {
		jsonError(w, http.StatusNotFound, "set_not_found")
		return
	}
	if req.SlotCount == 0 {
		req.SlotCount = defaultSlots()
	}
	var opts []match.Option
	if req.Seed != nil {
		opts = append(opts, match.WithSeed(*req.Seed))
	}
	sess, err := s.newSession(r, w, set, req.SlotCount, false, opts...)
	if err != nil {
		if errors.Is(err, match.ErrInvalidConfiguration) {
			jsonError(w, http.StatusBadRequest, "invalid_configuration")
			return
		}
		log.Error().Err(err).Msg("new game")
		jsonError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	sess.Lock()
	res := gameRes{GameID: sess.ID, SetID: sess.SetID, Snapshot: sess.Engine.Snapshot()}
	sess.Unlock()
	_ = json.NewEncoder(w).Encode(res)
}

// newSession builds the engine, saves the session and, for regular games,
// inserts the history row. Daily results are recorded in daily_results instead.
func (s *Server) newSession(r *http.Request, w http.ResponseWriter, set phrases.Set, slots int, daily bool, opts ...match.Option) (*store.Session, error) {
	dict, err := set.Dictionary()
	if err != nil {
		return nil, err
	}
	eng, err := match.New(dict, slots, opts...)
	if err != nil {
		return nil, err
	}

	me := currentUser(r)
	owner := s.ensureAnonID(w, r)
	if me != nil {
		owner = me.ID
	}
	sess := store.NewSession(set.ID, owner, eng)
	sess.Daily = daily
	if err := s.store.Save(r.Context(), sess); err != nil {
		return nil, err
	}
	if daily {
		return sess, nil
	}

	now := sess.StartedAt.Format(time.RFC3339)
	ownerCol := "anonymous_id"
	if me != nil {
		ownerCol = "user_id"
	}
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, `+ownerCol+`, set_id, slot_count, started_at, status, placements)
		 VALUES (?,?,?,?,?,?,0)`,
		sess.ID, owner, set.ID, slots, now, string(match.StateInProgress)); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}
	return sess, nil
}

// ownedSession loads a regular (non-daily) session and checks it belongs to
// the caller.
func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request, id string) (*store.Session, bool) {
	sess, err := s.store.Get(r.Context(), id)
	if err != nil || sess.Daily {
		jsonError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if me := currentUser(r); me != nil && sess.OwnerID == me.ID {
		return sess, true
	}
	if sess.OwnerID == s.ensureAnonID(w, r) {
		return sess, true
	}
	jsonError(w, http.StatusNotFound, "not_found")
	return nil, false
}

type placeReq struct {
	GameID string `json:"gameId"`
	TileID int    `json:"tileId"`
}

type placeRes struct {
	Position   int            `json:"position"`
	Events     []wireEvent    `json:"events"`
	State      match.State    `json:"state"`
	Placements int            `json:"placements"`
	Snapshot   match.Snapshot `json:"snapshot"`
}

// place runs one placement under the session lock.
// completed is true when this call finished the board.
func place(sess *store.Session, tileID int) (res placeRes, completed bool, err error) {
	sess.Lock()
	defer sess.Unlock()

	pos, events, err := sess.Engine.PlaceTile(tileID)
	if err != nil {
		return placeRes{}, false, err
	}
	if len(events) > 0 {
		sess.Placements++
	}
	for _, ev := range events {
		if ev.Kind() == match.KindSessionComplete {
			completed = true
		}
	}
	return placeRes{
		Position:   pos,
		Events:     encodeEvents(events),
		State:      sess.Engine.State(),
		Placements: sess.Placements,
		Snapshot:   sess.Engine.Snapshot(),
	}, completed, nil
}

// placeError maps engine errors onto HTTP responses.
func placeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, match.ErrNoAvailableSlot):
		jsonError(w, http.StatusConflict, "no_available_slot")
	case errors.Is(err, match.ErrInvalidReference):
		jsonError(w, http.StatusBadRequest, "invalid_reference")
	default:
		log.Error().Err(err).Msg("place tile")
		jsonError(w, http.StatusInternalServerError, "server_error")
	}
}

// handlePlace places a tile, persists progress, and (if the board is done)
// updates user stats in a best-effort transaction.
func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.ownedSession(w, r, req.GameID)
	if !ok {
		return
	}
	res, completed, err := place(sess, req.TileID)
	if err != nil {
		placeError(w, err)
		return
	}

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
	} else {
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.Exec(`UPDATE games SET placements=? WHERE id=?`, res.Placements, sess.ID); err != nil {
			log.Warn().Err(err).Msg("update placements")
		}
		if completed {
			if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=?`,
				string(match.StateComplete), time.Now().UTC().Format(time.RFC3339), sess.ID); err != nil {
				log.Warn().Err(err).Msg("finish game")
			}
			if me := currentUser(r); me != nil {
				if err := bumpStats(tx, me.ID); err != nil {
					log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
				}
			}
		}
		_ = tx.Commit()
	}

	_ = json.NewEncoder(w).Encode(res)
}

type resetReq struct {
	GameID string `json:"gameId"`
}

// handleReset re-deals the same set on the same game ID.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.ownedSession(w, r, req.GameID)
	if !ok {
		return
	}

	sess.Lock()
	sess.Engine.Reset()
	sess.Placements = 0
	sess.StartedAt = time.Now().UTC()
	res := gameRes{GameID: sess.ID, SetID: sess.SetID, Snapshot: sess.Engine.Snapshot()}
	sess.Unlock()

	if _, err := s.db.ExecContext(r.Context(),
		`UPDATE games SET placements=0, status=?, finished_at=NULL, started_at=? WHERE id=?`,
		string(match.StateInProgress), sess.StartedAt.Format(time.RFC3339), sess.ID); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("reset game row")
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleGetGame returns the current board.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.ownedSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sess.Lock()
	res := gameRes{GameID: sess.ID, SetID: sess.SetID, Placements: sess.Placements, Snapshot: sess.Engine.Snapshot()}
	sess.Unlock()
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------- small util --------------------------------

// jsonError writes {"error": code} with the given status.
func jsonError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// defaultSlots reads DEFAULT_SLOTS (default 6).
func defaultSlots() int {
	if n, err := strconv.Atoi(os.Getenv("DEFAULT_SLOTS")); err == nil && n > 0 {
		return n
	}
	return 6
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
