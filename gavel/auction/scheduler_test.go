package auction

import (
	"context"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

func TestScheduler_SettlesExpiredRounds(t *testing.T) {
	store := newFakeStore()
	nominator := store.addTeam("100", 25, 0)
	player := store.addPlayer("V Rao", "2.0", false)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(store, now)

	_, err := engine.Nominate(context.Background(), store.room.ID, player.ID, nominator.ID, d("2.0"))
	assert.Nil(t, err)

	engine.now = func() time.Time { return now.Add(16 * time.Second) }

	scheduler := NewScheduler(engine, 5*time.Millisecond)
	scheduler.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := store.State(context.Background(), store.room.ID)
		assert.Nil(t, err)
		if st.Phase == models.PhaseIdle {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	scheduler.Shutdown()

	st, err := store.State(context.Background(), store.room.ID)
	assert.Nil(t, err)
	check.Equal(t, models.PhaseIdle, st.Phase)
	check.Equal(t, 1, len(store.roster))
}
