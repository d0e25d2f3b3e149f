package service

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/pitchrent/internal/model"
	"github.com/mmeshcher/pitchrent/internal/notify"
	"github.com/mmeshcher/pitchrent/internal/repository"
)

var testNow = time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC)

type pair struct{ renter, pitch int64 }

type fakeState struct {
	nextID    int64
	users     map[int64]model.Principal
	pitches   map[int64]model.Pitch
	vouchers  map[int64]model.Voucher
	orders    map[int64]model.Order
	comments  map[int64]model.Comment
	ratings   map[int64]model.PitchRating
	access    map[pair]model.AccessComment
	favorites map[pair]bool
}

func (s fakeState) clone() fakeState {
	c := s
	c.users = maps.Clone(s.users)
	c.pitches = make(map[int64]model.Pitch, len(s.pitches))
	for id, p := range s.pitches {
		p.Images = slices.Clone(p.Images)
		c.pitches[id] = p
	}
	c.vouchers = maps.Clone(s.vouchers)
	c.orders = maps.Clone(s.orders)
	c.comments = maps.Clone(s.comments)
	c.ratings = maps.Clone(s.ratings)
	c.access = maps.Clone(s.access)
	c.favorites = maps.Clone(s.favorites)
	return c
}

// fakeRepo хранит данные в памяти. InTx откатывает все изменения, если fn вернула ошибку.
type fakeRepo struct {
	st   fakeState
	fail  map[string]error
	txs   int
	locks []string
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		st: fakeState{
			users:     map[int64]model.Principal{},
			pitches:   map[int64]model.Pitch{},
			vouchers:  map[int64]model.Voucher{},
			orders:    map[int64]model.Order{},
			comments:  map[int64]model.Comment{},
			ratings:   map[int64]model.PitchRating{},
			access:    map[pair]model.AccessComment{},
			favorites: map[pair]bool{},
		},
		fail: map[string]error{},
	}
}

func (f *fakeRepo) id() int64 {
	f.st.nextID++
	return f.st.nextID
}

func (f *fakeRepo) check(op string) error {
	return f.fail[op]
}

func (f *fakeRepo) InTx(_ context.Context, fn func(repository.Store) error) error {
	f.txs++
	snapshot := f.st.clone()
	if err := fn(f); err != nil {
		f.st = snapshot
		return err
	}
	return nil
}

func (f *fakeRepo) Close() error { return nil }

func (f *fakeRepo) addUser(u model.Principal) *model.Principal {
	if u.ID == 0 {
		u.ID = f.id()
	}
	f.st.users[u.ID] = u
	return &u
}

func (f *fakeRepo) addPitch(price int64) model.Pitch {
	p := model.Pitch{
		ID:      f.id(),
		Address: "Lenina 1",
		Title:   "Arena",
		Size:    model.PitchSizeFive,
		Surface: model.PitchSurfaceNatural,
		Price:   price,
	}
	f.st.pitches[p.ID] = p
	return p
}

func (f *fakeRepo) addOrder(o model.Order) model.Order {
	o.ID = f.id()
	f.st.orders[o.ID] = o
	return o
}

func (f *fakeRepo) GetPitch(_ context.Context, id int64) (*model.Pitch, error) {
	if err := f.check("GetPitch"); err != nil {
		return nil, err
	}
	p, ok := f.st.pitches[id]
	if !ok {
		return nil, repository.ErrPitchNotFound
	}
	p.Images = slices.Clone(p.Images)
	return &p, nil
}

func (f *fakeRepo) LockPitch(ctx context.Context, id int64) (*model.Pitch, error) {
	if err := f.check("LockPitch"); err != nil {
		return nil, err
	}
	return f.GetPitch(ctx, id)
}

func (f *fakeRepo) CreatePitch(_ context.Context, p *model.Pitch) error {
	if err := f.check("CreatePitch"); err != nil {
		return err
	}
	p.ID = f.id()
	f.st.pitches[p.ID] = *p
	return nil
}

func (f *fakeRepo) UpdatePitch(_ context.Context, p *model.Pitch) error {
	old, ok := f.st.pitches[p.ID]
	if !ok {
		return repository.ErrPitchNotFound
	}
	updated := *p
	updated.Images = old.Images
	f.st.pitches[p.ID] = updated
	return nil
}

func (f *fakeRepo) DeletePitch(_ context.Context, id int64) error {
	if _, ok := f.st.pitches[id]; !ok {
		return repository.ErrPitchNotFound
	}
	delete(f.st.pitches, id)
	delete(f.st.ratings, id)
	maps.DeleteFunc(f.st.orders, func(_ int64, o model.Order) bool { return o.PitchID == id })
	maps.DeleteFunc(f.st.comments, func(_ int64, c model.Comment) bool { return c.PitchID == id })
	maps.DeleteFunc(f.st.access, func(k pair, _ model.AccessComment) bool { return k.pitch == id })
	maps.DeleteFunc(f.st.favorites, func(k pair, _ bool) bool { return k.pitch == id })
	return nil
}

func (f *fakeRepo) AddPitchImage(_ context.Context, pitchID int64, url string) error {
	p := f.st.pitches[pitchID]
	p.Images = append(p.Images, url)
	f.st.pitches[pitchID] = p
	return nil
}

func (f *fakeRepo) SearchPitches(_ context.Context, flt repository.PitchFilter) ([]model.Pitch, error) {
	out := make([]model.Pitch, 0)
	for _, p := range f.st.pitches {
		if flt.Keyword != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(flt.Keyword)) {
			continue
		}
		if flt.Size != "" && p.Size != flt.Size {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CountOpenOrders(_ context.Context, pitchID int64) (int, error) {
	n := 0
	for _, o := range f.st.orders {
		if o.PitchID == pitchID && o.Status == model.OrderStatusOpen {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GetVoucher(_ context.Context, id int64) (*model.Voucher, error) {
	v, ok := f.st.vouchers[id]
	if !ok {
		return nil, repository.ErrVoucherNotFound
	}
	return &v, nil
}

func (f *fakeRepo) CreateVoucher(_ context.Context, v *model.Voucher) error {
	v.ID = f.id()
	f.st.vouchers[v.ID] = *v
	return nil
}

func (f *fakeRepo) ListVouchers(_ context.Context) ([]model.Voucher, error) {
	out := slices.Collect(maps.Values(f.st.vouchers))
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CreateOrder(_ context.Context, o *model.Order) error {
	if err := f.check("CreateOrder"); err != nil {
		return err
	}
	o.ID = f.id()
	o.CreatedDate = testNow
	f.st.orders[o.ID] = *o
	return nil
}

func (f *fakeRepo) GetOrder(_ context.Context, id int64) (*model.Order, error) {
	o, ok := f.st.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &o, nil
}

func (f *fakeRepo) LockOrder(ctx context.Context, id int64) (*model.Order, error) {
	return f.GetOrder(ctx, id)
}

func (f *fakeRepo) UpdateOrderStatus(_ context.Context, id int64, status model.OrderStatus) error {
	if err := f.check("UpdateOrderStatus"); err != nil {
		return err
	}
	o, ok := f.st.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	f.st.orders[id] = o
	return nil
}

func (f *fakeRepo) ordersWhere(keep func(model.Order) bool) []model.Order {
	out := make([]model.Order, 0)
	for _, o := range f.st.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRepo) ListOrdersByRenter(_ context.Context, renterID int64) ([]model.Order, error) {
	return f.ordersWhere(func(o model.Order) bool { return o.RenterID == renterID }), nil
}

// FindOverlappingOrders отдаёт все заказы поля: отбор по интервалу остаётся за сервисом.
func (f *fakeRepo) FindOverlappingOrders(_ context.Context, pitchID int64, _, _ time.Time) ([]model.Order, error) {
	return f.ordersWhere(func(o model.Order) bool { return o.PitchID == pitchID }), nil
}

func (f *fakeRepo) HasConfirmedOrder(_ context.Context, renterID, pitchID int64) (bool, error) {
	for _, o := range f.st.orders {
		if o.RenterID == renterID && o.PitchID == pitchID && o.Status == model.OrderStatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateComment(_ context.Context, c *model.Comment) error {
	if err := f.check("CreateComment"); err != nil {
		return err
	}
	c.ID = f.id()
	c.CreatedDate = testNow
	f.st.comments[c.ID] = *c
	return nil
}

func (f *fakeRepo) GetComment(_ context.Context, id int64) (*model.Comment, error) {
	c, ok := f.st.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	return &c, nil
}

func (f *fakeRepo) LockComment(ctx context.Context, id int64) (*model.Comment, error) {
	return f.GetComment(ctx, id)
}

func (f *fakeRepo) UpdateComment(_ context.Context, id int64, rating int, body string) error {
	c, ok := f.st.comments[id]
	if !ok {
		return repository.ErrCommentNotFound
	}
	if !c.IsReply() {
		c.Rating = rating
	}
	c.Body = body
	f.st.comments[id] = c
	return nil
}

func (f *fakeRepo) DeleteCommentTree(_ context.Context, id int64) ([]model.Comment, error) {
	root, ok := f.st.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}

	deleted := []model.Comment{root}
	for i := 0; i < len(deleted); i++ {
		for _, c := range f.st.comments {
			if c.ParentID != nil && *c.ParentID == deleted[i].ID {
				deleted = append(deleted, c)
			}
		}
	}
	for _, d := range deleted {
		delete(f.st.comments, d.ID)
	}
	return deleted, nil
}

func (f *fakeRepo) ListCommentsByPitch(_ context.Context, pitchID int64) ([]model.Comment, error) {
	out := make([]model.Comment, 0)
	for _, c := range f.st.comments {
		if c.PitchID == pitchID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) LockPitchRating(ctx context.Context, pitchID int64) (model.PitchRating, error) {
	f.locks = append(f.locks, "pitch_ratings")
	return f.GetPitchRating(ctx, pitchID)
}

func (f *fakeRepo) GetPitchRating(_ context.Context, pitchID int64) (model.PitchRating, error) {
	r, ok := f.st.ratings[pitchID]
	if !ok {
		return model.PitchRating{PitchID: pitchID}, nil
	}
	return r, nil
}

func (f *fakeRepo) SavePitchRating(_ context.Context, r model.PitchRating) error {
	if err := f.check("SavePitchRating"); err != nil {
		return err
	}
	f.st.ratings[r.PitchID] = r
	return nil
}

func (f *fakeRepo) LockAccessComment(_ context.Context, renterID, pitchID int64) (model.AccessComment, error) {
	f.locks = append(f.locks, "access_comments")
	a, ok := f.st.access[pair{renterID, pitchID}]
	if !ok {
		return model.AccessComment{RenterID: renterID, PitchID: pitchID}, nil
	}
	return a, nil
}

func (f *fakeRepo) SaveAccessComment(_ context.Context, a model.AccessComment) error {
	if err := f.check("SaveAccessComment"); err != nil {
		return err
	}
	f.st.access[pair{a.RenterID, a.PitchID}] = a
	return nil
}

func (f *fakeRepo) AddFavorite(_ context.Context, renterID, pitchID int64) error {
	f.st.favorites[pair{renterID, pitchID}] = true
	return nil
}

func (f *fakeRepo) DeleteFavorite(_ context.Context, renterID, pitchID int64) (bool, error) {
	k := pair{renterID, pitchID}
	if !f.st.favorites[k] {
		return false, nil
	}
	delete(f.st.favorites, k)
	return true, nil
}

func (f *fakeRepo) ListFavorites(_ context.Context, renterID int64) ([]model.Favorite, error) {
	out := make([]model.Favorite, 0)
	for k := range f.st.favorites {
		if k.renter == renterID {
			out = append(out, model.Favorite{RenterID: k.renter, PitchID: k.pitch, PitchTitle: f.st.pitches[k.pitch].Title})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PitchID < out[j].PitchID })
	return out, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id int64) (*model.Principal, error) {
	u, ok := f.st.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeRepo) ListSuperusers(_ context.Context) ([]model.Principal, error) {
	if err := f.check("ListSuperusers"); err != nil {
		return nil, err
	}
	out := make([]model.Principal, 0)
	for _, u := range f.st.users {
		if u.IsSuperuser && u.IsActive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) RevenueByPitch(_ context.Context, from, to time.Time, limit int) ([]model.RevenueStat, error) {
	byPitch := map[int64]*model.RevenueStat{}
	for _, o := range f.st.orders {
		if o.Status == model.OrderStatusCancelled || o.TimeStart.Before(from) || !o.TimeStart.Before(to) {
			continue
		}
		s, ok := byPitch[o.PitchID]
		if !ok {
			p := f.st.pitches[o.PitchID]
			s = &model.RevenueStat{PitchID: p.ID, Title: p.Title, Size: p.Size, Surface: p.Surface, Price: p.Price}
			byPitch[o.PitchID] = s
		}
		s.Revenue += o.Cost
		s.OrderCount++
	}

	out := make([]model.RevenueStat, 0, len(byPitch))
	for _, s := range byPitch {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].PitchID < out[j].PitchID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) DailyRevenue(_ context.Context, pitchID int64, from, to time.Time) ([]model.DailyRevenue, error) {
	byDay := map[int]int64{}
	for _, o := range f.st.orders {
		if o.PitchID != pitchID || o.Status == model.OrderStatusCancelled || o.TimeStart.Before(from) || !o.TimeStart.Before(to) {
			continue
		}
		byDay[o.TimeStart.In(from.Location()).Day()] += o.Cost
	}
	out := make([]model.DailyRevenue, 0, len(byDay))
	for day, rev := range byDay {
		out = append(out, model.DailyRevenue{Day: day, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

type recordingNotifier struct {
	sent []notify.Message
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg notify.Message) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *recordingNotifier) {
	t.Helper()
	repo := newFakeRepo()
	n := &recordingNotifier{}
	svc := NewService(repo, n, zap.NewNop(),
		WithClock(func() time.Time { return testNow }),
		WithSiteURL("http://pitch.test"),
	)
	return svc, repo, n
}
