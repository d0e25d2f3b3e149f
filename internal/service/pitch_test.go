package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/pitchrent/internal/apperror"
	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/repository"
)

func validPitchRequest() PitchRequest {
	return PitchRequest{
		Address: "Lenina 1",
		Title:   "Arena",
		Size:    model.PitchSizeSeven,
		Surface: model.PitchSurfaceArtificial,
		Price:   1500,
	}
}

func TestCreatePitch(t *testing.T) {
	svc, repo, _ := newTestService(t)
	admin := superuser(repo)
	renter := activeRenter(repo)
	ctx := context.Background()

	p, err := svc.CreatePitch(ctx, admin, validPitchRequest())
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, model.PitchSizeSeven, repo.st.pitches[p.ID].Size)

	_, err = svc.CreatePitch(ctx, renter, validPitchRequest())
	require.ErrorIs(t, err, apperror.ErrForbidden)

	tooExpensive := validPitchRequest()
	tooExpensive.Price = model.MaxPitchPrice + 1
	_, err = svc.CreatePitch(ctx, admin, tooExpensive)
	requireValidation(t, err, "price")

	badSize := validPitchRequest()
	badSize.Size = "HUGE"
	_, err = svc.CreatePitch(ctx, admin, badSize)
	requireValidation(t, err, "size")
}

func TestUpdatePitch(t *testing.T) {
	svc, repo, _ := newTestService(t)
	admin := superuser(repo)
	pitch := repo.addPitch(1000)

	req := validPitchRequest()
	req.Price = 2500
	p, err := svc.UpdatePitch(context.Background(), admin, pitch.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), p.Price)
	assert.Equal(t, int64(2500), repo.st.pitches[pitch.ID].Price)

	_, err = svc.UpdatePitch(context.Background(), admin, 404, req)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeletePitch_RefusedWithOpenOrders(t *testing.T) {
	svc, repo, _ := newTestService(t)
	admin := superuser(repo)
	renter := activeRenter(repo)
	pitch := repo.addPitch(1000)
	o := openOrder(repo, renter, pitch)
	ctx := context.Background()

	err := svc.DeletePitch(ctx, admin, pitch.ID)
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Contains(t, repo.st.pitches, pitch.ID)

	_, err = svc.ChangeOrderStatus(ctx, admin, o.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	repo.addOrder(model.Order{PitchID: pitch.ID, RenterID: renter.ID, Status: model.OrderStatusCancelled})

	require.NoError(t, svc.DeletePitch(ctx, admin, pitch.ID))
	assert.NotContains(t, repo.st.pitches, pitch.ID)
	assert.Empty(t, repo.st.orders)

	err = svc.DeletePitch(ctx, admin, pitch.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddPitchImageAndGetPitch(t *testing.T) {
	svc, repo, _ := newTestService(t)
	admin := superuser(repo)
	pitch := repo.addPitch(1000)
	repo.st.ratings[pitch.ID] = model.PitchRating{PitchID: pitch.ID, AvgRating: 4.5, CountComment: 2}
	ctx := context.Background()

	require.NoError(t, svc.AddPitchImage(ctx, admin, pitch.ID, ImageRequest{URL: "https://cdn.example.com/a.png"}))

	err := svc.AddPitchImage(ctx, admin, pitch.ID, ImageRequest{URL: "not a url"})
	requireValidation(t, err, "url")

	details, err := svc.GetPitch(ctx, pitch.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, details.Pitch.Images)
	assert.InDelta(t, 4.5, details.Rating.AvgRating, 1e-9)

	_, err = svc.GetPitch(ctx, 404)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSearchPitches(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.addPitch(1000)
	ctx := context.Background()

	pitches, err := svc.SearchPitches(ctx, repository.PitchFilter{Keyword: "are"})
	require.NoError(t, err)
	assert.Len(t, pitches, 1)

	_, err = svc.SearchPitches(ctx, repository.PitchFilter{Size: "HUGE"})
	requireValidation(t, err, "size")

	_, err = svc.SearchPitches(ctx, repository.PitchFilter{Surface: "ICE"})
	requireValidation(t, err, "surface")

	lo, hi := int64(500), int64(100)
	_, err = svc.SearchPitches(ctx, repository.PitchFilter{MinPrice: &lo, MaxPrice: &hi})
	requireValidation(t, err, "price_max")
}

func TestVouchers(t *testing.T) {
	svc, repo, _ := newTestService(t)
	admin := superuser(repo)
	ctx := context.Background()

	v, err := svc.CreateVoucher(ctx, admin, VoucherRequest{Name: "spring", MinCost: 1000, Discount: 100, Count: 10})
	require.NoError(t, err)
	assert.NotZero(t, v.ID)

	_, err = svc.CreateVoucher(ctx, admin, VoucherRequest{Name: "zero", Count: 0})
	requireValidation(t, err, "count")

	_, err = svc.CreateVoucher(ctx, admin, VoucherRequest{Name: "rich", MinCost: model.MaxVoucherMinCost + 1, Count: 1})
	requireValidation(t, err, "min_cost")

	vouchers, err := svc.ListVouchers(ctx)
	require.NoError(t, err)
	assert.Len(t, vouchers, 1)
}

func TestToggleFavorite(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := activeRenter(repo)
	pitch := repo.addPitch(1000)
	ctx := context.Background()

	added, err := svc.ToggleFavorite(ctx, user, pitch.ID)
	require.NoError(t, err)
	assert.True(t, added)

	favorites, err := svc.ListFavorites(ctx, user)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Arena", favorites[0].PitchTitle)

	added, err = svc.ToggleFavorite(ctx, user, pitch.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, repo.st.favorites)

	_, err = svc.ToggleFavorite(ctx, user, 404)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
