package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubapi/config"
	"clubapi/db"
	"clubapi/middlewares"
	"clubapi/models"
	"clubapi/routes"
	"clubapi/utils"
)

func main() {
	cfg := config.Load()

	// Postgres
	sqldb, err := db.Open(cfg.PGDSN)
	if err != nil {
		log.Fatal("postgres error:", err)
	}
	defer sqldb.Close()

	// Mongo（gallery）
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mg, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongo.Connect error:", err)
	}
	if err := mg.Ping(ctx, nil); err != nil {
		log.Fatal("mongo ping error:", err)
	}
	defer func() { _ = mg.Disconnect(context.Background()) }()

	galleryCol := mg.Database("club").Collection("gallery_images")

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	// Cache invalidator
	inv := utils.NewCacheInvalidator(rdb)

	// Gin + middlewares
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.Default()
	server.Use(middlewares.BodyLimit(6 << 20)) // 5MB 圖片 + JSON 包裝的餘裕
	server.Use(middlewares.ResponseCache(rdb, 30*time.Second))

	// Routes
	routes.RegisterRoutes(server, routes.Repos{
		Users:       models.NewSQLUserRepository(sqldb),
		Regs:        models.NewSQLRegistrationRepository(sqldb),
		Events:      models.NewSQLEventRepository(sqldb),
		Blog:        models.NewSQLBlogRepository(sqldb),
		Gallery:     models.NewMongoGalleryRepository(galleryCol),
		Discussions: models.NewSQLDiscussionRepository(sqldb),
	}, rdb, inv, !cfg.IsProduction())

	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal("gin.Run error:", err)
	}
}
