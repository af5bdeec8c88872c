package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/database"
)

func TestDateKey_UTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-01", DateKey(ts))
}

func TestSetIndex_DeterministicPerDay(t *testing.T) {
	morning := time.Date(2026, 5, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, SetIndex(morning, "salt", 4), SetIndex(evening, "salt", 4))
	assert.Equal(t, Seed(morning, "salt"), Seed(evening, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(morning, "other"))

	for d := 0; d < 30; d++ {
		i := SetIndex(morning.AddDate(0, 0, d), "salt", 4)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 4)
	}
	assert.Equal(t, 0, SetIndex(morning, "salt", 0))
}

func TestStore_ResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()
	st := NewStore(db)

	played, err := st.AlreadyPlayed(ctx, "u1", "2026-05-01")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-05-01", SetID: 2, Placements: 12, ElapsedMs: 9000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u2", Date: "2026-05-01", SetID: 2, Placements: 14, ElapsedMs: 4000}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u3", Date: "2026-05-01", SetID: 2, Placements: 11, ElapsedMs: 4000}))
	// second attempt on the same day is ignored
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-05-01", SetID: 2, Placements: 1, ElapsedMs: 1}))
	require.NoError(t, st.InsertResult(ctx, Result{UserID: "u1", Date: "2026-05-02", SetID: 3, Placements: 1, ElapsedMs: 1}))

	played, err = st.AlreadyPlayed(ctx, "u1", "2026-05-01")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := st.Leaderboard(ctx, "2026-05-01", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{UserID: "u3", Placements: 11, ElapsedMs: 4000},
		{UserID: "u2", Placements: 14, ElapsedMs: 4000},
		{UserID: "u1", Placements: 12, ElapsedMs: 9000},
	}, rows)

	rows, err = st.Leaderboard(ctx, "2026-05-01", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
