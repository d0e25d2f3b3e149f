package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// Store описывает операции с данными, доступные как на пуле, так и внутри транзакции.
type Store interface {
	GetPitch(ctx context.Context, id int64) (*model.Pitch, error)
	LockPitch(ctx context.Context, id int64) (*model.Pitch, error)
	CreatePitch(ctx context.Context, p *model.Pitch) error
	UpdatePitch(ctx context.Context, p *model.Pitch) error
	DeletePitch(ctx context.Context, id int64) error
	AddPitchImage(ctx context.Context, pitchID int64, url string) error
	SearchPitches(ctx context.Context, f PitchFilter) ([]model.Pitch, error)
	CountOpenOrders(ctx context.Context, pitchID int64) (int, error)

	GetVoucher(ctx context.Context, id int64) (*model.Voucher, error)
	CreateVoucher(ctx context.Context, v *model.Voucher) error
	ListVouchers(ctx context.Context) ([]model.Voucher, error)

	CreateOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	LockOrder(ctx context.Context, id int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
	ListOrdersByRenter(ctx context.Context, renterID int64) ([]model.Order, error)
	FindOverlappingOrders(ctx context.Context, pitchID int64, start, end time.Time) ([]model.Order, error)
	HasConfirmedOrder(ctx context.Context, renterID, pitchID int64) (bool, error)

	CreateComment(ctx context.Context, c *model.Comment) error
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	LockComment(ctx context.Context, id int64) (*model.Comment, error)
	UpdateComment(ctx context.Context, id int64, rating int, body string) error
	DeleteCommentTree(ctx context.Context, id int64) ([]model.Comment, error)
	ListCommentsByPitch(ctx context.Context, pitchID int64) ([]model.Comment, error)

	LockPitchRating(ctx context.Context, pitchID int64) (model.PitchRating, error)
	GetPitchRating(ctx context.Context, pitchID int64) (model.PitchRating, error)
	SavePitchRating(ctx context.Context, r model.PitchRating) error
	LockAccessComment(ctx context.Context, renterID, pitchID int64) (model.AccessComment, error)
	SaveAccessComment(ctx context.Context, a model.AccessComment) error

	AddFavorite(ctx context.Context, renterID, pitchID int64) error
	DeleteFavorite(ctx context.Context, renterID, pitchID int64) (bool, error)
	ListFavorites(ctx context.Context, renterID int64) ([]model.Favorite, error)

	GetUser(ctx context.Context, id int64) (*model.Principal, error)
	ListSuperusers(ctx context.Context) ([]model.Principal, error)

	RevenueByPitch(ctx context.Context, from, to time.Time, limit int) ([]model.RevenueStat, error)
	DailyRevenue(ctx context.Context, pitchID int64, from, to time.Time) ([]model.DailyRevenue, error)
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries реализует Store поверх пула или транзакции.
type Queries struct {
	q querier
}

var _ Store = (*Queries)(nil)
