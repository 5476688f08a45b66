package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the JSON API. Everything except sign-in, the
// reset-email request and the reset callback requires a session.
func RegisterRoutes(
	router *gin.Engine,
	requireAuth gin.HandlerFunc,
	authHandler *AuthHandler,
	recordHandler *RecordHandler,
	measurementHandler *MeasurementHandler,
	fileHandler *FileHandler,
) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signin", authHandler.SignIn)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/callback", authHandler.Callback)
		auth.POST("/signout", requireAuth, authHandler.SignOut)
		auth.POST("/reset-password", requireAuth, authHandler.ResetPassword)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/catalog/designs", measurementHandler.Designs)

		protected.GET("/records/:table", recordHandler.List)
		protected.GET("/records/:table/:id", recordHandler.Get)
		protected.DELETE("/records/:table/:id", recordHandler.Delete)
		protected.PUT("/records/:table/:id/process-details", recordHandler.SaveProcessDetails)

		protected.GET("/flows/:table", recordHandler.ResolveStep)
		protected.POST("/flows/:table/basic-details", recordHandler.SaveBasicDetails)
		protected.POST("/flows/:table/skip", recordHandler.SkipMeasurements)

		customer := protected.Group("/customers/:id")
		customer.GET("/measurements", measurementHandler.List)
		customer.POST("/measurements", measurementHandler.Submit)
		customer.GET("/measurements/:mid", measurementHandler.Get)
		customer.DELETE("/measurements/:mid", measurementHandler.Delete)
		customer.POST("/measurements/:mid/view", measurementHandler.View)
		customer.POST("/measurements/:mid/edit", measurementHandler.Edit)
		customer.GET("/selection", measurementHandler.Selection)
		customer.DELETE("/selection", measurementHandler.Cancel)
		customer.GET("/live", measurementHandler.Live)
		customer.GET("/export", measurementHandler.Export)

		customer.GET("/files/:folder", fileHandler.List)
		customer.POST("/files/:folder", fileHandler.Upload)
		customer.DELETE("/files/:folder/:name", fileHandler.Delete)
	}
}
