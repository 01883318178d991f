package middleware

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/studyatlas/backend/pkg/store"
)

// App bundles the shared dependencies request handlers need.
type App struct {
	DBConn *pgxpool.Pool
	Queue  *amqp091.Channel
	Store  store.ConceptStore
}

// AppContext wraps the echo context with application state. Handlers
// downcast to it.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the shared App to every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{Context: c, App: app})
		}
	}
}
