package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/meridaco/catalogbackend/cache"
	"github.com/meridaco/catalogbackend/controllers"
	"github.com/meridaco/catalogbackend/database"
	"github.com/meridaco/catalogbackend/middleware"
	"github.com/meridaco/catalogbackend/storage"
	"github.com/meridaco/catalogbackend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	ctx := context.Background()

	// seeding admin user
	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(ctx)
	if err != nil {
		log.Fatal("object storage: ", err)
	}

	rdb, err := cache.NewRedisClient()
	if err != nil {
		log.Println("redis unavailable, continuing without cache: ", err)
	}

	r := gin.New()
	v := utils.NewImageValidator()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
	log.Printf("Allowed origins: %v", allowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/login", controllers.Login())
	r.POST("/auth/refresh", controllers.Refresh())
	r.POST("/auth/logout", controllers.Logout())

	r.GET("/products", controllers.GetProducts(rdb))
	r.GET("/products/:slug", controllers.GetProduct())
	r.GET("/categories", controllers.GetCategories())
	r.GET("/categories/:slug", controllers.GetCategory())

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.POST("/products", controllers.AddProduct(store, rdb, v))
		admin.PUT("/products/:id", controllers.UpdateProduct(store, rdb, v))
		admin.PUT("/products", controllers.UpdateProducts(rdb))
		admin.DELETE("/products/:id", controllers.DeleteProduct(store, rdb))
		admin.DELETE("/products", controllers.DeleteProducts(store, rdb))

		admin.POST("/categories", controllers.AddCategory(store, v))
		admin.PUT("/categories/:slug", controllers.UpdateCategory(store, v))
		admin.DELETE("/categories/:id", controllers.DeleteCategory(store))
		admin.DELETE("/categories", controllers.DeleteCategories(store))

		admin.POST("/users", controllers.CreateUser())
		admin.POST("/users/me/password", controllers.ChangeMyPassword())
	}

	// Server listens on 0.0.0.0:8080 unless PORT is set
	r.Run()
}
