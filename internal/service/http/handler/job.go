package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reusedev/koi/internal/modules/job"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/internal/service/http/handler/request"
	"github.com/reusedev/koi/internal/service/http/handler/response"
)

func JobQuery(c *gin.Context) {
	form := request.JobQuery{}
	err := c.ShouldBindUri(&form)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ParamError)
		return
	}
	if err = form.Valid(); err != nil {
		c.JSON(http.StatusBadRequest, response.ParamErrorWithMessage(err.Error()))
		return
	}
	snap, err := jobTracker.Get(form.ID)
	if errors.Is(err, job.ErrJobNotFound) && jobHistory != nil {
		snap, err = jobHistory(form.ID)
	}
	if errors.Is(err, job.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, response.NotFound)
		return
	}
	if err != nil {
		logs.ForJob(form.ID).Err(err).Msg("query job")
		c.JSON(http.StatusInternalServerError, response.InternalError)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithData(snap))
}
