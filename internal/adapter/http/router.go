package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health       *Handler
	Books        *BookHandler
	Transactions *TransactionHandler
	Fines        *FineHandler
}

// RegisterRoutes mounts the API. guard wraps every mutating transaction
// route (idempotency in production).
func RegisterRoutes(e *echo.Echo, h Handlers, guard ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	books := e.Group("/books")
	books.POST("", h.Books.Create)
	books.GET("", h.Books.List)
	books.GET("/:id", h.Books.Get)
	books.PATCH("/:id/quantity", h.Books.UpdateQuantity)
	books.DELETE("/:id", h.Books.Deactivate)

	txns := e.Group("/transactions")
	txns.GET("", h.Transactions.List)
	txns.GET("/:id", h.Transactions.Get)
	txns.GET("/:id/fine", h.Transactions.FinePreview)
	txns.POST("", h.Transactions.Borrow, guard...)
	txns.POST("/sweep-overdue", h.Transactions.SweepOverdue, guard...)
	txns.POST("/:id/return", h.Transactions.Return, guard...)
	txns.POST("/:id/undo-return", h.Transactions.UndoReturn, guard...)
	txns.POST("/:id/extend", h.Transactions.Extend, guard...)

	fines := e.Group("/fines")
	fines.GET("", h.Fines.List)
	fines.GET("/:id", h.Fines.Get)
	fines.POST("/:id/pay", h.Fines.Pay)
	fines.POST("/:id/waive", h.Fines.Waive)
}
