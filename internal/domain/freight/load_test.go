package freight

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulstack/tms/internal/domain/shared"
)

func newTestLoad(t *testing.T) *Load {
	t.Helper()
	load, err := NewLoad(uuid.New(), uuid.New(), "L-1001", decimal.NewFromInt(2400))
	require.NoError(t, err)
	return load
}

func TestLoadLifecycle(t *testing.T) {
	t.Run("happy path pending to delivered", func(t *testing.T) {
		load := newTestLoad(t)
		assert.Equal(t, LoadStatusPending, load.Status)

		require.NoError(t, load.Assign(uuid.New(), uuid.New()))
		assert.Equal(t, LoadStatusAssigned, load.Status)

		require.NoError(t, load.StartTransit())
		assert.Equal(t, LoadStatusInTransit, load.Status)

		require.NoError(t, load.MarkDelivered(time.Now()))
		assert.Equal(t, LoadStatusDelivered, load.Status)
		assert.NotNil(t, load.DeliveredAt)
		assert.True(t, load.Billable())
	})

	t.Run("cannot start transit before assignment", func(t *testing.T) {
		load := newTestLoad(t)
		assert.ErrorIs(t, load.StartTransit(), shared.ErrInvalidState)
	})

	t.Run("cannot deliver before transit", func(t *testing.T) {
		load := newTestLoad(t)
		require.NoError(t, load.Assign(uuid.New(), uuid.New()))
		assert.ErrorIs(t, load.MarkDelivered(time.Now()), shared.ErrInvalidState)
	})

	t.Run("reassignment keeps assigned status", func(t *testing.T) {
		load := newTestLoad(t)
		require.NoError(t, load.Assign(uuid.New(), uuid.New()))
		other := uuid.New()
		require.NoError(t, load.Assign(other, uuid.New()))
		assert.Equal(t, LoadStatusAssigned, load.Status)
		assert.Equal(t, other, *load.DriverID)
	})
}

func TestLoadCancel(t *testing.T) {
	t.Run("cancel pending", func(t *testing.T) {
		load := newTestLoad(t)
		require.NoError(t, load.Cancel())
		assert.Equal(t, LoadStatusCancelled, load.Status)
	})

	t.Run("cancel assigned clears dispatch", func(t *testing.T) {
		load := newTestLoad(t)
		require.NoError(t, load.Assign(uuid.New(), uuid.New()))
		require.NoError(t, load.Cancel())
		assert.Nil(t, load.DriverID)
		assert.Nil(t, load.TruckID)
	})

	t.Run("cannot cancel in transit", func(t *testing.T) {
		load := newTestLoad(t)
		require.NoError(t, load.Assign(uuid.New(), uuid.New()))
		require.NoError(t, load.StartTransit())
		assert.ErrorIs(t, load.Cancel(), shared.ErrInvalidState)
	})

	t.Run("cannot cancel delivered", func(t *testing.T) {
		load := newTestLoad(t)
		require.NoError(t, load.Assign(uuid.New(), uuid.New()))
		require.NoError(t, load.StartTransit())
		require.NoError(t, load.MarkDelivered(time.Now()))
		assert.ErrorIs(t, load.Cancel(), shared.ErrInvalidState)
	})
}

func TestLoadRatePerMile(t *testing.T) {
	load := newTestLoad(t)
	assert.True(t, load.RatePerMile().IsZero())

	load.Miles = 800
	assert.True(t, load.RatePerMile().Equal(decimal.NewFromInt(3)))
}

func TestLoadTotalAmount(t *testing.T) {
	load := newTestLoad(t)
	assert.True(t, load.TotalAmount().Equal(load.Rate))

	load.FuelSurcharge = decimal.NewFromInt(150)
	load.Accessorial = decimal.NewFromInt(75)
	assert.True(t, load.TotalAmount().Equal(decimal.NewFromInt(2625)))
}

func TestLoadDocuments(t *testing.T) {
	load := newTestLoad(t)
	require.Empty(t, load.PODKey)
	require.Empty(t, load.RateconKey)

	load.AttachPOD("docs/pod-1001.pdf")
	load.AttachRatecon("docs/rc-1001.pdf")
	assert.Equal(t, "docs/pod-1001.pdf", load.PODKey)
	assert.Equal(t, "docs/rc-1001.pdf", load.RateconKey)
}

func TestLoadStops(t *testing.T) {
	load := newTestLoad(t)

	pickup, err := NewStop(load.ID, StopTypePickup)
	require.NoError(t, err)
	delivery, err := NewStop(load.ID, StopTypeDelivery)
	require.NoError(t, err)

	load.AddStop(pickup)
	load.AddStop(delivery)
	assert.Equal(t, 1, pickup.Sequence)
	assert.Equal(t, 2, delivery.Sequence)
}

func TestStopTiming(t *testing.T) {
	stop, err := NewStop(uuid.New(), StopTypePickup)
	require.NoError(t, err)

	t.Run("departure before arrival rejected", func(t *testing.T) {
		assert.ErrorIs(t, stop.RecordDeparture(time.Now()), shared.ErrInvalidState)
	})

	t.Run("dwell computed after departure", func(t *testing.T) {
		arrived := time.Now()
		require.NoError(t, stop.RecordArrival(arrived))
		assert.Error(t, stop.RecordDeparture(arrived.Add(-time.Hour)))
		require.NoError(t, stop.RecordDeparture(arrived.Add(2*time.Hour)))
		assert.Equal(t, 2*time.Hour, stop.Dwell())
	})

	t.Run("double arrival rejected", func(t *testing.T) {
		assert.ErrorIs(t, stop.RecordArrival(time.Now()), shared.ErrInvalidState)
	})
}

func TestRateconReview(t *testing.T) {
	ratecon, err := NewRatecon(uuid.New(), uuid.New(), "ratecons/2026/08/abc.pdf", decimal.NewFromInt(2400))
	require.NoError(t, err)
	assert.Equal(t, RateconStatusReceived, ratecon.Status)

	require.NoError(t, ratecon.Confirm(time.Now()))
	assert.Equal(t, RateconStatusConfirmed, ratecon.Status)
	assert.ErrorIs(t, ratecon.Reject(time.Now(), "late"), shared.ErrInvalidState)
}

func TestLaneRate(t *testing.T) {
	lane, err := NewLane(uuid.New(), "Atlanta", "ga", "Dallas", "tx")
	require.NoError(t, err)
	assert.Equal(t, "GA", lane.OriginState)
	assert.Equal(t, "TX", lane.DestState)

	require.NoError(t, lane.SetRate(decimal.NewFromInt(1560), 780))
	assert.True(t, lane.RatePerMile().Equal(decimal.NewFromInt(2)))

	_, err = NewLane(uuid.New(), "Atlanta", "georgia", "Dallas", "TX")
	assert.Error(t, err)
}
