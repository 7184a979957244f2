package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parsePage 解析分页参数
func parsePage(c *gin.Context) (page, pageSize, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize, (page - 1) * pageSize
}
