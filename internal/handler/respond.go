package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"Lee_Chat/internal/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fail 业务错误原样返回，500 只给笼统文案、细节进日志
func fail(c *gin.Context, log *zap.Logger, err error) {
	status := pkg.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"msg": pkg.Public(err)})
}

func pathID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", pkg.ErrValidation, name)
	}
	return id, nil
}
