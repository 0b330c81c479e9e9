package tickets

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketbot/tickets/tickettest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfirms() (*Confirmations, *tickettest.Store) {
	store := tickettest.NewStore()
	return &Confirmations{Store: store}, store
}

func TestConfirmArmAndConsume(t *testing.T) {
	confirms, _ := newTestConfirms()
	ctx := context.Background()

	require.NoError(t, confirms.Arm(ctx, ConfirmClose, "c1", CloseConfirmWindow))

	live, err := confirms.Consume(ctx, ConfirmClose, "c1")
	require.NoError(t, err)
	assert.True(t, live)

	// a confirmation is single-use
	live, err = confirms.Consume(ctx, ConfirmClose, "c1")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestConfirmExpiredWindowIsInert(t *testing.T) {
	confirms, store := newTestConfirms()
	ctx := context.Background()

	require.NoError(t, confirms.Arm(ctx, ConfirmDelete, "c1", DeleteConfirmWindow))

	store.Advance(DeleteConfirmWindow + time.Second)

	live, err := confirms.Consume(ctx, ConfirmDelete, "c1")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestConfirmConsumeJustInsideWindow(t *testing.T) {
	confirms, store := newTestConfirms()
	ctx := context.Background()

	require.NoError(t, confirms.Arm(ctx, ConfirmClose, "c1", CloseConfirmWindow))

	store.Advance(CloseConfirmWindow - time.Second)

	live, err := confirms.Consume(ctx, ConfirmClose, "c1")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestConfirmCancelDiscardsPending(t *testing.T) {
	confirms, _ := newTestConfirms()
	ctx := context.Background()

	require.NoError(t, confirms.Arm(ctx, ConfirmClose, "c1", CloseConfirmWindow))
	require.NoError(t, confirms.Cancel(ctx, ConfirmClose, "c1"))

	live, err := confirms.Consume(ctx, ConfirmClose, "c1")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestConfirmKindsAndChannelsAreIndependent(t *testing.T) {
	confirms, _ := newTestConfirms()
	ctx := context.Background()

	require.NoError(t, confirms.Arm(ctx, ConfirmClose, "c1", CloseConfirmWindow))

	live, err := confirms.Consume(ctx, ConfirmDelete, "c1")
	require.NoError(t, err)
	assert.False(t, live)

	live, err = confirms.Consume(ctx, ConfirmClose, "c2")
	require.NoError(t, err)
	assert.False(t, live)

	live, err = confirms.Consume(ctx, ConfirmClose, "c1")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestCreateCooldown(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	cooldown, onCooldown, err := mgr.CreateCooldown(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, onCooldown)
	assert.Zero(t, cooldown)

	cooldown, onCooldown, err = mgr.CreateCooldown(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, onCooldown)
	assert.Positive(t, cooldown)

	// another user is unaffected
	_, onCooldown, err = mgr.CreateCooldown(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, onCooldown)
}

func TestCreateCooldownExpires(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	_, _, err := mgr.CreateCooldown(ctx, "u1")
	require.NoError(t, err)

	mgr.Store.(*tickettest.Store).Advance(11 * time.Second)

	_, onCooldown, err := mgr.CreateCooldown(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, onCooldown)
}

func TestCreateCooldownPropagatesStoreErrors(t *testing.T) {
	mgr, _ := newTestManager(t)

	mgr.Store.(*tickettest.Store).Err = errors.New("store offline")

	_, _, err := mgr.CreateCooldown(context.Background(), "u1")
	require.ErrorContains(t, err, "error checking cooldown")
}
