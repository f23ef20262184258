package summaries

import "github.com/labstack/echo/v4"

type Handler interface {
	ProcessVideo() echo.HandlerFunc
	ProcessVideoStream() echo.HandlerFunc
	GetMyJobs() echo.HandlerFunc
	GetStats() echo.HandlerFunc
	GetDetailedStats() echo.HandlerFunc
}
