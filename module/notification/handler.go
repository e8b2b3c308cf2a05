package notification

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hany173g/OtakuZone-sub001/middleware"
	"github.com/Hany173g/OtakuZone-sub001/module/notification/service"
)

type Handler struct {
	DB *mongo.Database
}

func (h *Handler) Register(rt *middleware.Router) {
	rt.GET("/notifications", h.HandlerList, middleware.RouteOpt{IsAuth: true})
	rt.POST("/notifications/:id/read", h.HandlerMarkRead, middleware.RouteOpt{IsAuth: true})
	rt.POST("/notifications/read-all", h.HandlerMarkAllRead, middleware.RouteOpt{IsAuth: true})
}

func (h *Handler) HandlerList(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	out, err := service.List(c.Request.Context(), h.DB, c.GetString(middleware.CtxUserID), limit)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, out)
}

func (h *Handler) HandlerMarkRead(c *gin.Context) {
	err := service.MarkRead(c.Request.Context(), h.DB, c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}

func (h *Handler) HandlerMarkAllRead(c *gin.Context) {
	err := service.MarkAllRead(c.Request.Context(), h.DB, c.GetString(middleware.CtxUserID))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}
