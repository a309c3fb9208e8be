package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedqlab/fedq/internal/match"
)

func resultWithRows(n int) match.Result {
	rows := make([]match.Row, n)
	for i := range rows {
		rows[i] = match.Row{Code: "code", NumericValue: "1"}
	}
	return match.Result{"s1": rows}
}

func TestGather_CompleteSet(t *testing.T) {
	r := New()

	go func() {
		r.Send("alice", resultWithRows(1))
		r.Send("bob", resultWithRows(2))
	}()

	res, err := r.Gather(context.Background(), []string{"alice", "bob"}, time.Second)
	require.NoError(t, err)

	assert.True(t, res.Complete())
	assert.Empty(t, res.Missing)
	require.Len(t, res.Contributions, 2)
	assert.Equal(t, "alice", res.Contributions[0].PartyID, "contributions keep receipt order")
	assert.Equal(t, "bob", res.Contributions[1].PartyID)
}

func TestGather_TimeoutReportsMissing(t *testing.T) {
	r := New()
	r.Send("alice", resultWithRows(1))

	res, err := r.Gather(context.Background(), []string{"alice", "bob", "carol"}, 20*time.Millisecond)
	require.NoError(t, err)

	assert.False(t, res.Complete())
	assert.True(t, res.TimedOut)
	assert.Equal(t, []string{"bob", "carol"}, res.Missing)
	require.Len(t, res.Contributions, 1)
}

func TestGather_ContextCancellation(t *testing.T) {
	r := New()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	// Zero timeout: wait indefinitely until the context goes.
	_, err := r.Gather(ctx, []string{"alice"}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSend_DuplicateKeepsFirst(t *testing.T) {
	r := New()
	require.True(t, r.Send("alice", resultWithRows(1)))
	require.True(t, r.Send("alice", resultWithRows(5)))

	res, err := r.Gather(context.Background(), []string{"alice"}, time.Second)
	require.NoError(t, err)

	require.Len(t, res.Contributions, 1)
	assert.Equal(t, 1, res.Contributions[0].Result.TotalRows())
}

func TestSend_AfterCloseRefused(t *testing.T) {
	r := New()
	r.Close()
	assert.False(t, r.Send("alice", resultWithRows(1)))
}

func TestGather_CloseWakesPartialWait(t *testing.T) {
	r := New()
	r.Send("alice", resultWithRows(1))

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Close()
	}()

	res, err := r.Gather(context.Background(), []string{"alice", "bob"}, 0)
	require.NoError(t, err)

	assert.False(t, res.Complete())
	assert.False(t, res.TimedOut)
	assert.Equal(t, []string{"bob"}, res.Missing)
}

func TestGather_LateSenderCompletes(t *testing.T) {
	r := New()
	r.Send("alice", resultWithRows(1))

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Send("bob", resultWithRows(1))
	}()

	res, err := r.Gather(context.Background(), []string{"alice", "bob"}, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Complete())
}
