package http

import (
	"github.com/gin-gonic/gin"
	"github.com/reusedev/koi/internal/service/http/handler"
	"github.com/reusedev/koi/internal/service/http/middleware"
)

func Serve(port string) {
	e := gin.New()
	initRouter(e)
	if err := e.Run(port); err != nil {
		panic(err)
	}
}

func initRouter(e *gin.Engine) {
	e.Use(gin.Recovery(), middleware.RequestLogger())
	v1 := e.Group("/v1")
	p := v1.Group("/panel")
	{
		p.GET("", handler.GetPanel)
		p.PUT("", handler.UpdatePanel)
		p.POST("/submit", handler.Submit)
	}
	v1.GET("/jobs/:id", handler.JobQuery)
	v1.GET("/layers", handler.Layers)
}
