package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	MimeImage = "image/"
)

// Cache keys shared by services that cache in Redis.
const (
	CacheKeyCategories = "skillswap:categories"
	ChatChannel        = "skillswap:session_chat"
)
