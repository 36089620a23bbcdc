package service

import "shortdrama/constant"

type Lock struct {
	LockType constant.LockType `json:"lockType"`
	CoinCost int               `json:"coinCost"`
}

// PickLock assigns the lock for an episode: the first freeEpisodes are free,
// after that AD and COINS alternate starting with AD.
func PickLock(episodeNumber, freeEpisodes, defaultCoinCost int) Lock {
	if episodeNumber <= freeEpisodes {
		return Lock{LockType: constant.LockTypeFree}
	}
	if (episodeNumber-freeEpisodes)%2 == 1 {
		return Lock{LockType: constant.LockTypeAd}
	}
	return Lock{LockType: constant.LockTypeCoins, CoinCost: defaultCoinCost}
}
