package main

import (
	"fmt"
	"log"
	"net/http"

	"courtside/backend/internal/auth"
	"courtside/backend/internal/config"
	"courtside/backend/internal/database"
	"courtside/backend/internal/handler"
	"courtside/backend/internal/places"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "courtside/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Courtside API
// @version         1.0
// @description     Venue booking, matchmaking and social API for racket sports.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	handler.PlacesClient = places.NewClient(config.AppConfig.MapsBaseURL, config.AppConfig.MapsAPIKey)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
			authRoutes.POST("/logout", auth.AuthMiddleware(), handler.LogoutUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", handler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.GET("/suggestions", handler.GetFriendSuggestions)
			userRoutes.GET("/:id", handler.GetUserByID)
		}

		// Friendship routes (protected)
		friendRoutes := apiV1.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.GET("", handler.ListFriends)
			friendRoutes.GET("/count", handler.CountFriends)
			friendRoutes.DELETE("/:username", handler.Unfriend)

			friendRoutes.POST("/requests", handler.SendFriendRequest)
			friendRoutes.GET("/requests", handler.ListFriendRequests)
			friendRoutes.GET("/requests/count", handler.CountFriendRequests)
			friendRoutes.POST("/requests/:id/accept", handler.AcceptFriendRequest)
			friendRoutes.POST("/requests/:id/reject", handler.RejectFriendRequest)
		}

		// Chat routes (protected)
		chatRoutes := apiV1.Group("/chats")
		chatRoutes.Use(auth.AuthMiddleware())
		{
			chatRoutes.POST("", handler.SendChatMessage)
			chatRoutes.GET("", handler.GetChatHistory)
			chatRoutes.POST("/read", handler.MarkChatRead)
			chatRoutes.GET("/unread/count", handler.CountUnreadMessages)
			chatRoutes.GET("/stream", handler.StreamMessages)
		}

		// Venue routes (protected)
		venueRoutes := apiV1.Group("/venues")
		venueRoutes.Use(auth.AuthMiddleware())
		{
			venueRoutes.GET("", handler.ListVenues)
			venueRoutes.GET("/:id", handler.GetVenueByID)
			venueRoutes.GET("/:id/slots", handler.GetVenueSlots)
			venueRoutes.GET("/:id/reviews", handler.ListVenueReviews)
		}

		// Booking routes (protected)
		bookingRoutes := apiV1.Group("/bookings")
		bookingRoutes.Use(auth.AuthMiddleware())
		{
			bookingRoutes.POST("", handler.CreateBooking)
			bookingRoutes.GET("", handler.MyBookings)
			bookingRoutes.PUT("/:id", handler.UpdateBooking)
			bookingRoutes.DELETE("/:id", handler.DeleteBooking)
		}

		// Match routes (protected)
		matchRoutes := apiV1.Group("/matches")
		matchRoutes.Use(auth.AuthMiddleware())
		{
			matchRoutes.GET("", handler.ListMatches)
			matchRoutes.GET("/:id", handler.GetMatchByID)
			matchRoutes.POST("/1v1", handler.Create1v1Match)
			matchRoutes.POST("/2v2", handler.Create2v2Match)
			matchRoutes.POST("/:id/join", handler.JoinMatch)
			matchRoutes.POST("/leave", handler.LeaveMatch) // No ID needed, user leaves their own match
			matchRoutes.DELETE("/:id", handler.DeleteMatch)
		}

		// Review routes (protected)
		reviewRoutes := apiV1.Group("/reviews")
		reviewRoutes.Use(auth.AuthMiddleware())
		{
			reviewRoutes.POST("/venues/:id", handler.CreateReview)
			reviewRoutes.GET("/me", handler.MyReviews)
			reviewRoutes.PUT("/:id", handler.UpdateReview)
			reviewRoutes.DELETE("/:id", handler.DeleteReview)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminUserRoutes := adminRoutes.Group("/users")
			{
				adminUserRoutes.GET("", handler.AdminListUsers)
				adminUserRoutes.POST("", handler.AdminCreateUser)
				adminUserRoutes.PUT("/:id", handler.AdminUpdateUser)
				adminUserRoutes.DELETE("/:id", handler.AdminDeleteUser)
			}

			adminBookingRoutes := adminRoutes.Group("/bookings")
			{
				adminBookingRoutes.GET("", handler.AdminListBookings)
				adminBookingRoutes.DELETE("/:id", handler.AdminDeleteBooking)
			}

			adminVenueRoutes := adminRoutes.Group("/venues")
			{
				adminVenueRoutes.POST("", handler.CreateVenue)
				adminVenueRoutes.POST("/refresh", handler.RefreshVenues)
				adminVenueRoutes.PUT("/:id", handler.UpdateVenue)
				adminVenueRoutes.DELETE("/:id", handler.DeleteVenue)
			}
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
