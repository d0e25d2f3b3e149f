// Package model содержит доменные сущности сервиса аренды футбольных полей.
package model

import "time"

// Principal описывает аутентифицированного пользователя, которого предоставляет сервис идентификации.
type Principal struct {
	ID          int64
	Username    string
	Email       string
	IsActive    bool
	IsSuperuser bool
}

// PitchSize описывает формат поля.
type PitchSize string

const (
	PitchSizeFive   PitchSize = "FIVE"
	PitchSizeSeven  PitchSize = "SEVEN"
	PitchSizeTwelve PitchSize = "TWELVE"
)

// PitchSurface описывает тип покрытия поля.
type PitchSurface string

const (
	PitchSurfaceArtificial PitchSurface = "ARTIFICIAL"
	PitchSurfaceNatural    PitchSurface = "NATURAL"
	PitchSurfaceMixed      PitchSurface = "MIXED"
)

// Ограничения на денежные поля.
const (
	MaxPitchPrice      int64 = 2_000_000_000
	MaxVoucherMinCost  int64 = 20_000_000
	MaxVoucherDiscount int64 = 200_000_000
	MaxVoucherCount    int   = 200_000
)

// Pitch описывает футбольное поле, доступное для аренды.
type Pitch struct {
	ID          int64
	Address     string
	Title       string
	Description string
	Phone       string
	Size        PitchSize
	Surface     PitchSurface
	Price       int64
	Images      []string
}

// Voucher описывает скидочный купон с порогом минимальной стоимости.
type Voucher struct {
	ID       int64
	Name     string
	MinCost  int64
	Discount int64
	Count    int
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order описывает бронирование поля на интервал времени.
type Order struct {
	ID          int64
	PitchID     int64
	RenterID    int64
	VoucherID   *int64
	TimeStart   time.Time
	TimeEnd     time.Time
	Status      OrderStatus
	Price       int64
	Cost        int64
	CreatedDate time.Time
}

// Comment описывает отзыв арендатора о поле. У ответов Rating равен нулю.
type Comment struct {
	ID          int64
	RenterID    int64
	PitchID     int64
	ParentID    *int64
	Rating      int
	Body        string
	CreatedDate time.Time
	Replies     []Comment
}

// IsReply сообщает, является ли комментарий ответом на другой.
func (c Comment) IsReply() bool {
	return c.ParentID != nil
}

// PitchRating хранит агрегированную оценку поля.
type PitchRating struct {
	PitchID      int64
	AvgRating    float64
	CountComment int
}

// AccessComment хранит число неизрасходованных прав на комментарий для пары (арендатор, поле).
type AccessComment struct {
	RenterID            int64
	PitchID             int64
	CountCommentCreated int
	CountCommentUpdated int
}

// Favorite описывает поле в избранном пользователя.
type Favorite struct {
	RenterID   int64
	PitchID    int64
	PitchTitle string
}

// RevenueStat содержит выручку поля за период.
type RevenueStat struct {
	PitchID    int64
	Title      string
	Size       PitchSize
	Surface    PitchSurface
	Price      int64
	Revenue    int64
	OrderCount int
}

// DailyRevenue содержит выручку поля за один день месяца.
type DailyRevenue struct {
	Day     int
	Revenue int64
}
