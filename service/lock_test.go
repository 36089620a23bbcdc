package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"shortdrama/constant"
)

func TestPickLock(t *testing.T) {
	tests := []struct {
		name    string
		number  int
		free    int
		cost    int
		want    constant.LockType
		wantFee int
	}{
		{name: "first episode is free", number: 1, free: 3, cost: 5, want: constant.LockTypeFree},
		{name: "last free episode", number: 3, free: 3, cost: 5, want: constant.LockTypeFree},
		{name: "first paid is ad", number: 4, free: 3, cost: 5, want: constant.LockTypeAd},
		{name: "then coins", number: 5, free: 3, cost: 5, want: constant.LockTypeCoins, wantFee: 5},
		{name: "alternates", number: 6, free: 3, cost: 5, want: constant.LockTypeAd},
		{name: "no free episodes", number: 1, free: 0, cost: 9, want: constant.LockTypeAd},
		{name: "no free episodes second", number: 2, free: 0, cost: 9, want: constant.LockTypeCoins, wantFee: 9},
		{name: "zero cost coins", number: 2, free: 0, cost: 0, want: constant.LockTypeCoins},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickLock(tt.number, tt.free, tt.cost)
			assert.Equal(t, tt.want, got.LockType)
			assert.Equal(t, tt.wantFee, got.CoinCost)
		})
	}
}
