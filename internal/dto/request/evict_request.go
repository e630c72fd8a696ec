package request

// EvictRequest 手动清理过期条目
// MaxAgeSeconds 为 0 时使用配置中的 staleMaxAge，上限为 constants.MAX_EVICT_AGE（十年）
type EvictRequest struct {
	MaxAgeSeconds int64 `json:"maxAgeSeconds" binding:"gte=0,lte=315360000"`
}
