// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's board (creates or reuses session)
//   - POST /daily/place       → place a tile on today's board
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can finish the daily board once per day (enforced by DB + in-memory
// session). Everyone gets the same set and the same shuffle: both derive from
// date + salt.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/daily"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/match"
	"github.com/vlinh/hanzimatch/apps/go-server/internal/phrases"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string
	now   func() time.Time

	mu    sync.Mutex        // guards games
	games map[string]string // userID|date → game ID
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:   s,
		store: daily.NewStore(s.db),
		salt:  getEnv("DAILY_SALT", "local_dev_salt"),
		now:   time.Now,
		games: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/place", dd.handlePlace)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key, the daily set and the shuffle seed.
func (d *dailyServer) today() (string, phrases.Set, uint64) {
	now := d.now().UTC()
	set, _ := phrases.At(daily.SetIndex(now, d.salt, len(phrases.Sets())))
	return daily.DateKey(now), set, daily.Seed(now, d.salt)
}

// playerID is the account ID when logged in, otherwise the anonymous cookie.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID   string          `json:"gameId"`
	Date     string          `json:"date"`
	SetID    int             `json:"setId"`
	Played   bool            `json:"played"`
	Snapshot *match.Snapshot `json:"snapshot,omitempty"`
}

// handleNew creates or reuses today's session.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its board.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	date, set, seed := d.today()

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, SetID: set.ID, Played: true})
		return
	} else if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.games[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			sess.Lock()
			snap := sess.Engine.Snapshot()
			sess.Unlock()
			_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: id, Date: date, SetID: set.ID, Snapshot: &snap})
			return
		}
	}

	sess, err := d.srv.newSession(r, w, set, defaultSlots(), true, match.WithSeed(seed))
	if err != nil {
		log.Error().Err(err).Msg("daily new")
		jsonError(w, http.StatusInternalServerError, "server_error")
		return
	}
	d.games[key] = sess.ID
	sess.Lock()
	snap := sess.Engine.Snapshot()
	sess.Unlock()
	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.ID, Date: date, SetID: set.ID, Snapshot: &snap})
}

// -----------------------------------------------------------------------------
// /daily/place

type dailyPlaceRes struct {
	placeRes
	Locked bool `json:"locked,omitempty"`
}

// handlePlace places a tile on today's board; on completion the result is
// persisted for the leaderboard.
func (d *dailyServer) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	uid := d.playerID(w, r)
	date, set, _ := d.today()

	d.mu.Lock()
	id, ok := d.games[uid+"|"+date]
	d.mu.Unlock()
	if !ok || id != req.GameID {
		jsonError(w, http.StatusConflict, "no_session")
		return
	}
	sess, err := d.srv.store.Get(r.Context(), id)
	if err != nil {
		jsonError(w, http.StatusConflict, "no_session")
		return
	}

	sess.Lock()
	done := sess.Engine.Complete()
	sess.Unlock()
	if done {
		_ = json.NewEncoder(w).Encode(dailyPlaceRes{placeRes: placeRes{Events: []wireEvent{}, State: match.StateComplete}, Locked: true})
		return
	}

	res, completed, err := place(sess, req.TileID)
	if err != nil {
		placeError(w, err)
		return
	}
	if completed {
		elapsed := int(time.Since(sess.StartedAt).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: date, SetID: set.ID, Placements: res.Placements, ElapsedMs: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(dailyPlaceRes{placeRes: res})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
