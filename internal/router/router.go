package router

import (
	"fmt"
	"strings"

	"github.com/gearup-shop/internal/cache"
	"github.com/gearup-shop/internal/config"
	"github.com/gearup-shop/internal/constants"
	"github.com/gearup-shop/internal/http/handlers/api"
	"github.com/gearup-shop/internal/logger"
	"github.com/gearup-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := api.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:%s", redisPrefix, constants.RateLimitSceneLogin),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:%s", redisPrefix, constants.RateLimitSceneRegister),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), handler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.Login)
			auth.POST("/google", RateLimitMiddleware(redisClient, loginRule, KeyByIP), handler.GoogleLogin)
		}

		// 公开接口
		apiV1.GET("/products", handler.ListProducts)
		apiV1.GET("/products/:id", handler.GetProduct)
		apiV1.GET("/products/:id/reviews", handler.ListProductReviews)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", handler.Me)

			user.POST("/products", handler.CreateProduct)
			user.PUT("/products/:id", handler.UpdateProduct)
			user.DELETE("/products/:id", handler.DeleteProduct)

			user.GET("/cart", handler.GetCart)
			user.POST("/cart", handler.CreateCart)
			user.POST("/cart/items", handler.AddCartItem)
			user.PUT("/cart/:cart_id/items/:item_id", handler.UpdateCartItem)
			user.DELETE("/cart/:cart_id/items/:item_id", handler.DeleteCartItem)
			user.DELETE("/cart/:cart_id", handler.DeleteCart)

			user.POST("/orders", handler.Checkout)
			user.GET("/orders", handler.ListOrders)

			user.POST("/reviews", handler.CreateReview)
			user.DELETE("/reviews/:id", handler.DeleteReview)

			user.POST("/payments/intent", handler.CreatePaymentIntent)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
