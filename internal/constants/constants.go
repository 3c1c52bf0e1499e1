package constants

// 商品成色常量
const (
	ProductConditionNew      = "new"
	ProductConditionLikeNew  = "like_new"
	ProductConditionGood     = "good"
	ProductConditionFair     = "fair"
	ProductConditionWellUsed = "well_used"
)

// 商品适用性别常量
const (
	ProductGenderMen    = "men"
	ProductGenderWomen  = "women"
	ProductGenderUnisex = "unisex"
)

// 评分范围常量
const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)

// 登录方式常量
const (
	AuthProviderPassword = "password"
	AuthProviderGoogle   = "google"
)

// 登录限流场景常量
const (
	RateLimitSceneLogin    = "login"
	RateLimitSceneRegister = "register"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "gearup"
)

// 默认分页大小
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
