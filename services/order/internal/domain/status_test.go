package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled"} {
		status, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), status)
	}

	_, err := Parse("refunded")
	require.Error(t, err)

	_, err = Parse("")
	require.Error(t, err)

	_, err = Parse("Pending")
	require.Error(t, err)
}

func TestCanTransitionTo_FullTable(t *testing.T) {
	t.Parallel()

	all := []Status{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
	legal := map[Status]map[Status]bool{
		StatusPending:    {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:  {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, legal[from][to], got, "%s -> %s", from, to)
		}
	}
}

func TestCancellable(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusPending.Cancellable())
	assert.True(t, StatusConfirmed.Cancellable())
	assert.False(t, StatusProcessing.Cancellable())
	assert.False(t, StatusShipped.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusShipped.Terminal())
}
