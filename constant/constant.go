package constant

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusSucceeded  JobStatus = "SUCCEEDED"
	JobStatusFailed     JobStatus = "FAILED"
)

func (s JobStatus) String() string {
	return string(s)
}

// Terminal reports whether the job will never be picked up again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

type JobKind string

const (
	JobKindEncodeOne   JobKind = "ENCODE_ONE"
	JobKindSplitSeries JobKind = "SPLIT_SERIES"
)

func (k JobKind) String() string {
	return string(k)
}

type EpisodeStatus string

const (
	EpisodeStatusDraft      EpisodeStatus = "DRAFT"
	EpisodeStatusProcessing EpisodeStatus = "PROCESSING"
	EpisodeStatusReady      EpisodeStatus = "READY"
	EpisodeStatusPublished  EpisodeStatus = "PUBLISHED"
	EpisodeStatusFailed     EpisodeStatus = "FAILED"
)

func (s EpisodeStatus) String() string {
	return string(s)
}

type LockType string

const (
	LockTypeFree  LockType = "FREE"
	LockTypeAd    LockType = "AD"
	LockTypeCoins LockType = "COINS"
)

func (l LockType) String() string {
	return string(l)
}

func (l LockType) Valid() bool {
	switch l {
	case LockTypeFree, LockTypeAd, LockTypeCoins:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionTypeAdUnlock  TransactionType = "AD_UNLOCK"
	TransactionTypeCoinSpend TransactionType = "COIN_SPEND"
	TransactionTypeCoinGrant TransactionType = "COIN_GRANT"
)

func (t TransactionType) String() string {
	return string(t)
}

type UnlockMethod string

const (
	UnlockMethodAd    UnlockMethod = "ad"
	UnlockMethodCoins UnlockMethod = "coins"
)

type JobEventType string

const (
	JobEventEnqueued  JobEventType = "job.enqueued"
	JobEventSucceeded JobEventType = "job.succeeded"
	JobEventFailed    JobEventType = "job.failed"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

const (
	RawKeyPrefix      = "raw/"
	RawKeyPlaceholder = "-"
	PublicKeyPrefix   = "public/"
)
