package booking

import (
	"errors"

	"github.com/mmeshcher/pitchrent/internal/model"
)

// ErrVoucherNotApplicable возвращается, если стоимость ниже порога ваучера.
var ErrVoucherNotApplicable = errors.New("voucher not applicable")

// ApplyVoucher применяет скидку ваучера к стоимости. Без ваучера стоимость не меняется.
// Итоговая стоимость не опускается ниже нуля. Счётчик использований ваучера не проверяется.
func ApplyVoucher(cost int64, v *model.Voucher) (int64, error) {
	if v == nil {
		return cost, nil
	}
	if cost < v.MinCost {
		return 0, ErrVoucherNotApplicable
	}

	final := cost - v.Discount
	if final < 0 {
		final = 0
	}
	return final, nil
}
