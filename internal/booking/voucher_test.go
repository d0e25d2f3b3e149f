package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/pitchrent/internal/model"
)

func TestApplyVoucher(t *testing.T) {
	tests := []struct {
		name    string
		cost    int64
		voucher *model.Voucher
		want    int64
		wantErr error
	}{
		{name: "no voucher", cost: 1500, want: 1500},
		{name: "applicable", cost: 3_000_000, voucher: &model.Voucher{MinCost: 2_000_000, Discount: 100_000}, want: 2_900_000},
		{name: "threshold equal to cost", cost: 2_000_000, voucher: &model.Voucher{MinCost: 2_000_000, Discount: 50_000}, want: 1_950_000},
		{name: "below threshold", cost: 1_500_000, voucher: &model.Voucher{MinCost: 2_000_000, Discount: 100_000}, wantErr: ErrVoucherNotApplicable},
		{name: "discount larger than cost", cost: 1000, voucher: &model.Voucher{MinCost: 0, Discount: 5000}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyVoucher(tt.cost, tt.voucher)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
