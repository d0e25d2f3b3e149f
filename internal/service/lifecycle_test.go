package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/notify"
)

func openOrder(repo *fakeRepo, renter *model.Principal, pitch model.Pitch) model.Order {
	start := testNow.Add(24 * time.Hour)
	return repo.addOrder(model.Order{
		PitchID:   pitch.ID,
		RenterID:  renter.ID,
		TimeStart: start,
		TimeEnd:   start.Add(time.Hour),
		Status:    model.OrderStatusOpen,
		Price:     pitch.Price,
		Cost:      pitch.Price,
	})
}

func TestChangeOrderStatus_ConfirmGrantsCredit(t *testing.T) {
	svc, repo, n := newTestService(t)
	admin := superuser(repo)
	renter := activeRenter(repo)
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)

	res, err := svc.ChangeOrderStatus(context.Background(), admin, o.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.False(t, res.NotificationFailed)
	assert.Equal(t, model.OrderStatusConfirmed, repo.st.orders[o.ID].Status)
	assert.Equal(t, 1, repo.st.access[pair{renter.ID, pitch.ID}].CountCommentCreated)

	require.Len(t, n.sent, 1)
	assert.Equal(t, notify.TemplateOrderConfirmed, n.sent[0].Template)
	assert.Equal(t, []string{renter.Email}, n.sent[0].Recipients)
}

func TestChangeOrderStatus_CancelGrantsNothing(t *testing.T) {
	svc, repo, n := newTestService(t)
	admin := superuser(repo)
	renter := activeRenter(repo)
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)

	_, err := svc.ChangeOrderStatus(context.Background(), admin, o.ID, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, repo.st.orders[o.ID].Status)
	assert.Empty(t, repo.st.access)
	require.Len(t, n.sent, 1)
	assert.Equal(t, notify.TemplateOrderCancelled, n.sent[0].Template)
}

func TestChangeOrderStatus_TerminalStates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	admin := superuser(repo)
	renter := activeRenter(repo)
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)
	ctx := context.Background()

	_, err := svc.ChangeOrderStatus(ctx, admin, o.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)

	for _, to := range []model.OrderStatus{model.OrderStatusOpen, model.OrderStatusCancelled, model.OrderStatusConfirmed} {
		_, err = svc.ChangeOrderStatus(ctx, admin, o.ID, to)
		requireValidation(t, err, "status")
	}
	assert.Equal(t, model.OrderStatusConfirmed, repo.st.orders[o.ID].Status)
	assert.Equal(t, 1, repo.st.access[pair{renter.ID, pitch.ID}].CountCommentCreated, "credit granted exactly once")
}

func TestChangeOrderStatus_Guards(t *testing.T) {
	svc, repo, _ := newTestService(t)
	admin := superuser(repo)
	renter := activeRenter(repo)
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)
	ctx := context.Background()

	_, err := svc.ChangeOrderStatus(ctx, renter, o.ID, model.OrderStatusConfirmed)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.ChangeOrderStatus(ctx, admin, o.ID, "PAID")
	requireValidation(t, err, "status")

	_, err = svc.ChangeOrderStatus(ctx, admin, 999, model.OrderStatusConfirmed)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestChangeOrderStatus_PersistenceFailureRollsBack(t *testing.T) {
	svc, repo, n := newTestService(t)
	repo.fail["SaveAccessComment"] = errors.New("disk full")
	admin := superuser(repo)
	renter := activeRenter(repo)
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)

	_, err := svc.ChangeOrderStatus(context.Background(), admin, o.ID, model.OrderStatusConfirmed)
	require.ErrorIs(t, err, apperror.ErrPersistence)
	assert.Equal(t, model.OrderStatusOpen, repo.st.orders[o.ID].Status)
	assert.Empty(t, repo.st.access)
	assert.Empty(t, n.sent)
}

func TestChangeOrderStatus_NotificationFailureKeepsStatus(t *testing.T) {
	svc, repo, n := newTestService(t)
	n.err = errors.New("queue unavailable")
	admin := superuser(repo)
	renter := activeRenter(repo)
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)

	res, err := svc.ChangeOrderStatus(context.Background(), admin, o.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, res.NotificationFailed)
	assert.Equal(t, model.OrderStatusConfirmed, repo.st.orders[o.ID].Status)
}

func TestCancelOwnOrder(t *testing.T) {
	svc, repo, n := newTestService(t)
	renter := activeRenter(repo)
	other := repo.addUser(model.Principal{Username: "other", IsActive: true})
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)
	ctx := context.Background()

	_, err := svc.CancelOwnOrder(ctx, other, o.ID)
	require.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, model.OrderStatusOpen, repo.st.orders[o.ID].Status)

	res, err := svc.CancelOwnOrder(ctx, renter, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, res.Order.Status)
	require.Len(t, n.sent, 1)
	assert.Equal(t, notify.TemplateOrderCancelled, n.sent[0].Template)

	_, err = svc.CancelOwnOrder(ctx, renter, o.ID)
	requireValidation(t, err, "status")
}
