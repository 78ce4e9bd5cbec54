package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

func testShow(id string) models.Show {
	return models.Show{ID: id, MovieID: "m1", MovieTitle: "Test Movie", Screen: "1"}
}

func testSeat(id, showID, number string) models.Seat {
	return models.Seat{ID: id, ShowID: showID, SeatNumber: number}
}

func TestStateProgression(t *testing.T) {
	c := newCart("s1", 200)
	assert.Equal(t, StateEmpty, c.State())

	c.SelectShow(testShow("show-1"))
	assert.Equal(t, StateShowSelected, c.State())

	require.NoError(t, c.ToggleSeat(testSeat("a1", "show-1", "A1")))
	assert.Equal(t, StateSeatsSelected, c.State())

	c.SetSnackQuantity(models.Snack{ID: "p1", Name: "Popcorn", Price: 150}, 2)
	assert.Equal(t, StateSnacksAdjusted, c.State())
}

func TestSelectDifferentShowClearsSeats(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))
	require.NoError(t, c.ToggleSeat(testSeat("a1", "show-1", "A1")))
	require.NoError(t, c.ToggleSeat(testSeat("a2", "show-1", "A2")))

	c.SelectShow(testShow("show-2"))

	snap := c.Snapshot()
	assert.Empty(t, snap.Seats)
	require.NotNil(t, snap.Show)
	assert.Equal(t, "show-2", snap.Show.ID)
}

func TestReselectSameShowKeepsSeats(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))
	require.NoError(t, c.ToggleSeat(testSeat("a1", "show-1", "A1")))

	c.SelectShow(testShow("show-1"))

	assert.Len(t, c.Snapshot().Seats, 1)
}

func TestToggleSeatRemovesWhenPresent(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))
	seat := testSeat("a1", "show-1", "A1")

	require.NoError(t, c.ToggleSeat(seat))
	assert.Len(t, c.Snapshot().Seats, 1)

	require.NoError(t, c.ToggleSeat(seat))
	assert.Empty(t, c.Snapshot().Seats)
}

func TestToggleSeatRejectsOtherShow(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))

	err := c.ToggleSeat(testSeat("b1", "show-2", "B1"))
	assert.ErrorIs(t, err, apperrors.ErrShowMismatch)
}

func TestToggleSeatWithoutShow(t *testing.T) {
	c := newCart("s1", 200)
	err := c.ToggleSeat(testSeat("a1", "show-1", "A1"))
	assert.ErrorIs(t, err, apperrors.ErrShowMismatch)
}

func TestToggleBookedSeatRejected(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))

	seat := testSeat("a1", "show-1", "A1")
	seat.IsBooked = true
	err := c.ToggleSeat(seat)
	assert.ErrorIs(t, err, apperrors.ErrSeatAlreadyBooked)
}

func TestSnackQuantityUpsertAndRemove(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))
	popcorn := models.Snack{ID: "p1", Name: "Popcorn", Price: 150}

	c.SetSnackQuantity(popcorn, 2)
	snap := c.Snapshot()
	require.Len(t, snap.Snacks, 1)
	assert.Equal(t, 2, snap.Snacks[0].Quantity)

	c.SetSnackQuantity(popcorn, 5)
	snap = c.Snapshot()
	require.Len(t, snap.Snacks, 1)
	assert.Equal(t, 5, snap.Snacks[0].Quantity)

	c.SetSnackQuantity(popcorn, 0)
	assert.Empty(t, c.Snapshot().Snacks)

	// Removing an absent line is a no-op.
	c.SetSnackQuantity(popcorn, -1)
	assert.Empty(t, c.Snapshot().Snacks)
}

func TestTotalsAlwaysRecomputed(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))
	require.NoError(t, c.ToggleSeat(testSeat("a1", "show-1", "A1")))
	require.NoError(t, c.ToggleSeat(testSeat("a2", "show-1", "A2")))
	c.SetSnackQuantity(models.Snack{ID: "p1", Name: "Popcorn", Price: 150}, 2)

	seatSub, snackSub, total := c.Totals()
	assert.Equal(t, int64(400), seatSub)
	assert.Equal(t, int64(300), snackSub)
	assert.Equal(t, int64(700), total)

	require.NoError(t, c.ToggleSeat(testSeat("a2", "show-1", "A2")))
	seatSub, snackSub, total = c.Totals()
	assert.Equal(t, int64(200), seatSub)
	assert.Equal(t, int64(300), snackSub)
	assert.Equal(t, int64(500), total)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	c := newCart("s1", 200)
	c.SelectShow(testShow("show-1"))
	require.NoError(t, c.ToggleSeat(testSeat("a1", "show-1", "A1")))

	snap := c.Snapshot()
	require.NoError(t, c.ToggleSeat(testSeat("a2", "show-1", "A2")))

	assert.Len(t, snap.Seats, 1)
	assert.Equal(t, "s1", snap.SessionID)
}

func TestStoreGetAndClear(t *testing.T) {
	s := NewStore(200)

	c1 := s.Get("sess-a")
	c2 := s.Get("sess-a")
	assert.Same(t, c1, c2)

	c1.SelectShow(testShow("show-1"))
	s.Clear("sess-a")

	c3 := s.Get("sess-a")
	assert.NotSame(t, c1, c3)
	assert.Equal(t, StateEmpty, c3.State())
}
