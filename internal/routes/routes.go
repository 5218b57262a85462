package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// List responses wrap items in a consistent envelope.
func listResponse(items any) gin.H {
	return gin.H{"items": items}
}

// pathID parses the named int64 path parameter, returning ErrInvalidParameter
// on garbage.
func pathID(c *gin.Context, name string) (int64, error) {
	return pathIDValue(c.Param(name))
}

func pathIDValue(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidParameter
	}
	return id, nil
}

func validISODate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
