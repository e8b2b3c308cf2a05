package comment

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hany173g/OtakuZone-sub001/middleware"
	"github.com/Hany173g/OtakuZone-sub001/module/comment/service"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
)

type Handler struct {
	DB  *mongo.Database
	Pub realtime.Publisher
}

func (h *Handler) Register(rt *middleware.Router) {
	rt.GET("/topics/:id/comments", h.HandlerList, middleware.RouteOpt{})
	rt.POST("/topics/:id/comments", h.HandlerCreate, middleware.RouteOpt{IsAuth: true})
	rt.DELETE("/comments/:id", h.HandlerDelete, middleware.RouteOpt{IsAuth: true})
}

type createReq struct {
	Body string `json:"body" binding:"required"`
}

func (h *Handler) HandlerCreate(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	cm, err := service.Create(c.Request.Context(), h.DB, h.Pub,
		c.Param("id"), c.GetString(middleware.CtxUserID), req.Body)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, cm)
}

func (h *Handler) HandlerList(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	out, err := service.ListByTopic(c.Request.Context(), h.DB, c.Param("id"), limit)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, out)
}

func (h *Handler) HandlerDelete(c *gin.Context) {
	err := service.Delete(c.Request.Context(), h.DB, c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}
