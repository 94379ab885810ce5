package constant

import "time"

const (
	OrderCpfLock       = "order:cpf_lock:%s"
	ConversionDedupKey = "capi:dedup:%s"
)

const (
	OrderCpfLockDefaultTTL = 30 * time.Second
	ConversionDedupTTL     = 24 * time.Hour
)
