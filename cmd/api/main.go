package main

import (
	"context"
	"net/http"

	"district-analytics-api/internal/config"
	"district-analytics-api/internal/external"
	"district-analytics-api/internal/handler"
	"district-analytics-api/internal/middleware"
	"district-analytics-api/internal/repository"
	"district-analytics-api/internal/service"
	"district-analytics-api/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token maker")
	}

	// Initialize layers
	repo := repository.NewRepository(conn)

	districtService := service.NewDistrictService(repo)
	industryService := service.NewIndustryService(repo)
	recommendService := service.NewRecommendService(repo)
	authService := service.NewAuthService(repo, districtService, industryService, tokenMaker, config.AccessTokenDuration)
	storeService := service.NewStoreService(repo, districtService, industryService)

	placesClient := external.NewPlacesClient(config.PlacesAPIKey, config.PlacesBaseURL)

	authHandler := handler.NewAuthHandler(authService)
	placesHandler := handler.NewPlacesHandler(placesClient)
	districtHandler := handler.NewDistrictHandler(districtService)
	recommendHandler := handler.NewRecommendHandler(recommendService, repo)
	storeHandler := handler.NewStoreHandler(storeService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/signup", authHandler.Signup)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/auth/check-username", authHandler.CheckUsername)
		v1.POST("/auth/verify-business", authHandler.VerifyBusiness)

		v1.GET("/analysis/districts/nearby", districtHandler.Nearby)
		v1.GET("/analysis/clusters/:clusterType", districtHandler.Cluster)

		v1.GET("/recommendations/by-industry", recommendHandler.ByIndustry)

		v1.GET("/places/search", placesHandler.Search)

		authed := v1.Group("", middleware.Auth(tokenMaker))
		{
			authed.GET("/stores/me/district", storeHandler.MyDistrict)
			authed.GET("/stores/me/industry", storeHandler.MyIndustry)
			authed.PATCH("/stores/:id", storeHandler.Update)
			authed.GET("/analysis/my-district", storeHandler.MyDistrictAnalysis)
			authed.GET("/recommendations/industries", recommendHandler.ForMe)
		}
	}

	r.Run(config.ServerAddress)
}
