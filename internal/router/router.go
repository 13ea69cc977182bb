package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/config"
	"reviewhub/internal/handler"
	"reviewhub/internal/middleware"
	"reviewhub/internal/service"
)

// Handlers bundles everything the router mounts under /v1.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Category *handler.CategoryHandler
	Genre    *handler.GenreHandler
	Title    *handler.TitleHandler
	Review   *handler.ReviewHandler
	Comment  *handler.CommentHandler
}

// New builds the gin engine with all v1 routes attached. The auth group is
// rate limited per client IP since signup triggers outbound email.
func New(cfg *config.Config, authService service.AuthService, h Handlers) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.AuthMiddleware(authService)

	v1 := r.Group("/v1")
	{
		authGroup := v1.Group("/auth", middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
		h.Auth.RegisterRoutes(authGroup)

		h.User.RegisterRoutes(v1.Group("/users"), auth)
		h.Category.RegisterRoutes(v1.Group("/categories"), auth)
		h.Genre.RegisterRoutes(v1.Group("/genres"), auth)

		titles := v1.Group("/titles")
		h.Title.RegisterRoutes(titles, auth)

		reviews := titles.Group("/:title_id/reviews")
		h.Review.RegisterRoutes(reviews, auth)

		comments := reviews.Group("/:review_id/comments")
		h.Comment.RegisterRoutes(comments, auth)
	}

	return r
}
