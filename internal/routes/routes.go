package routes

import (
	"homecare-rental/internal/handlers"
	"homecare-rental/internal/middleware"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, timeline *handlers.TimelineHandler, analytics *handlers.AnalyticsHandler) {
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, 200, true, "server ok", nil)
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", handlers.Login)
		api.POST("/payment/notification", handlers.HandleMidtransNotification)

		// every route below needs a token
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", handlers.GetUserProfile)
			protected.PATCH("/profile/fcm-token", handlers.UpdateFCMToken)

			protected.GET("/calendar", timeline.Calendar)
			protected.GET("/calendar/export", timeline.ExportCalendar)
			protected.GET("/notifications", timeline.Notifications)

			staff := protected.Group("/")
			staff.Use(middleware.StaffOnly())
			{
				staff.POST("/patients", handlers.AddPatient)
				staff.GET("/patients", handlers.GetPatients)
				staff.GET("/patients/:id", handlers.GetPatient)
				staff.GET("/patients/:id/timeline", timeline.PatientTimeline)
				staff.POST("/patients/:id/diagnostics", handlers.AddDiagnostic)

				staff.POST("/rentals", handlers.CreateRental)
				staff.GET("/rentals", handlers.GetRentals)
				staff.GET("/rentals/:id", handlers.GetRental)
				staff.PATCH("/rentals/:id/return", handlers.ReturnRental)
				staff.POST("/rentals/:id/payments", handlers.AddRentalPayment)

				staff.POST("/sales", handlers.CreateSale)
				staff.GET("/sales", handlers.GetSales)
				staff.POST("/sales/:id/payments", handlers.AddSalePayment)

				staff.POST("/appointments", handlers.CreateAppointment)
				staff.PATCH("/appointments/:id/status", handlers.UpdateAppointmentStatus)

				staff.POST("/payments/:id/checkout", handlers.CreatePaymentCheckout)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/users", handlers.Register)
				admin.GET("/users", handlers.GetUsers)
				admin.GET("/analytics", analytics.Summary)
				admin.GET("/analytics/export", analytics.Export)
			}
		}
	}
}
