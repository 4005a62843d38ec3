package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/internal/modules/panel"
	"github.com/reusedev/koi/internal/modules/queue"
	"github.com/reusedev/koi/internal/service/http/handler/request"
	"github.com/reusedev/koi/internal/service/http/handler/response"
)

func GetPanel(c *gin.Context) {
	p, err := controller.Params(c.Request.Context())
	if err != nil {
		logs.Logger.Err(err).Msg("read panel")
		c.JSON(http.StatusInternalServerError, response.InternalError)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithData(response.NewPanel(p)))
}

func UpdatePanel(c *gin.Context) {
	form := request.UpdatePanel{}
	err := c.ShouldBindJSON(&form)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ParamError)
		return
	}
	p, err := controller.EditParams(c.Request.Context(), form.Apply)
	if errors.Is(err, panel.ErrInvalidParams) {
		c.JSON(http.StatusBadRequest, response.ParamErrorWithMessage(err.Error()))
		return
	}
	if err != nil {
		logs.Logger.Err(err).Msg("update panel")
		c.JSON(http.StatusInternalServerError, response.InternalError)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithData(response.NewPanel(p)))
}

func Submit(c *gin.Context) {
	jobID, err := controller.Submit(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, response.SuccessWithData(response.Submit{JobID: jobID}))
	case errors.Is(err, panel.ErrInvalidParams), errors.Is(err, panel.ErrSelectionTooSmall):
		c.JSON(http.StatusBadRequest, response.ParamErrorWithMessage(err.Error()))
	case errors.Is(err, queue.ErrQueueFull):
		c.JSON(http.StatusServiceUnavailable, response.Busy)
	default:
		logs.Logger.Err(err).Msg("submit job")
		c.JSON(http.StatusInternalServerError, response.InternalError)
	}
}

func Layers(c *gin.Context) {
	layers, err := controller.Layers(c.Request.Context())
	if err != nil {
		logs.Logger.Err(err).Msg("list layers")
		c.JSON(http.StatusInternalServerError, response.InternalError)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithData(layers))
}
