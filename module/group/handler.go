package group

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hany173g/OtakuZone-sub001/middleware"
	"github.com/Hany173g/OtakuZone-sub001/module/group/service"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
)

type Handler struct {
	DB  *mongo.Database
	Pub realtime.Publisher
}

func (h *Handler) Register(rt *middleware.Router) {
	rt.GET("/groups", h.HandlerList, middleware.RouteOpt{})
	rt.GET("/groups/:id", h.HandlerGet, middleware.RouteOpt{})
	rt.POST("/groups", h.HandlerCreate, middleware.RouteOpt{IsAuth: true})
	rt.POST("/groups/:id/join", h.HandlerJoin, middleware.RouteOpt{IsAuth: true})
	rt.POST("/groups/:id/leave", h.HandlerLeave, middleware.RouteOpt{IsAuth: true})
	rt.DELETE("/groups/:id/members/:member", h.HandlerRemoveMember, middleware.RouteOpt{IsAuth: true})
}

type createReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) HandlerCreate(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	g, err := service.Create(c.Request.Context(), h.DB,
		c.GetString(middleware.CtxUserID), req.Name, req.Description)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, g)
}

func (h *Handler) HandlerList(c *gin.Context) {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	perPage, _ := strconv.ParseInt(c.Query("per_page"), 10, 64)
	out, err := service.List(c.Request.Context(), h.DB, page, perPage)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, out)
}

func (h *Handler) HandlerGet(c *gin.Context) {
	g, err := service.Get(c.Request.Context(), h.DB, c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, g)
}

func (h *Handler) HandlerJoin(c *gin.Context) {
	err := service.Join(c.Request.Context(), h.DB, c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}

func (h *Handler) HandlerLeave(c *gin.Context) {
	err := service.Leave(c.Request.Context(), h.DB, c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}

func (h *Handler) HandlerRemoveMember(c *gin.Context) {
	err := service.RemoveMember(c.Request.Context(), h.DB, h.Pub,
		c.Param("id"), c.GetString(middleware.CtxUserID), c.Param("member"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}
