package provider

import (
	"github.com/gearup-shop/internal/cache"
	"github.com/gearup-shop/internal/config"
	"github.com/gearup-shop/internal/logger"
	"github.com/gearup-shop/internal/models"
	"github.com/gearup-shop/internal/oauth"
	"github.com/gearup-shop/internal/repository"
	"github.com/gearup-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository
	ReviewRepo  repository.ReviewRepository

	// Services
	AuthService    *service.AuthService
	ProductService *service.ProductService
	CartService    *service.CartService
	OrderService   *service.OrderService
	ReviewService  *service.ReviewService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
}

func (c *Container) initServices() {
	var googleClient *oauth.GoogleClient
	if c.Config.GoogleOAuth.Enabled {
		googleClient = oauth.NewGoogleClient(oauth.Config{
			UserinfoURL: c.Config.GoogleOAuth.UserinfoURL,
			TimeoutMS:   c.Config.GoogleOAuth.TimeoutMS,
		})
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, googleClient)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.ProductRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.UserRepo)
}
