package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/arpay/arpay/internal/api/v1"
	"github.com/arpay/arpay/internal/rest/middleware"
)

type Handlers struct {
	Invoice *v1.InvoiceHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Invoice routes
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/search", handlers.Invoice.SearchInvoices)
		invoices.GET("/date-range", handlers.Invoice.ListInvoicesByDateRange)
		invoices.GET("/overdue", handlers.Invoice.ListOverdueInvoices)
		invoices.GET("/number/:number", handlers.Invoice.GetInvoiceByNumber)
		invoices.GET("/status/:status", handlers.Invoice.ListInvoicesByStatus)
		invoices.GET("/type/:type", handlers.Invoice.ListInvoicesByType)
		invoices.GET("/stats/total", handlers.Invoice.GetTotalAmountByStatus)
		invoices.GET("/stats/count", handlers.Invoice.GetInvoiceCountByStatus)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
	}
}
