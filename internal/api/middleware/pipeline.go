package middleware

import "github.com/labstack/echo/v4"

// Stage is one step in front of a handler. Returning nil lets the request
// continue; any error ends it and goes to the central error handler.
type Stage func(c echo.Context) error

// Pipeline runs stages in the given order and then the handler. The first
// failing stage short-circuits the rest.
func Pipeline(stages ...Stage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, stage := range stages {
				if stage == nil {
					continue
				}
				if err := stage(c); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}

// Optional runs stage for its side effects and ignores its error. Routes
// that behave differently for signed-in callers without requiring it use it.
func Optional(stage Stage) Stage {
	return func(c echo.Context) error {
		_ = stage(c)
		return nil
	}
}
