package message

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hany173g/OtakuZone-sub001/middleware"
	"github.com/Hany173g/OtakuZone-sub001/module/message/service"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
)

type Handler struct {
	DB  *mongo.Database
	Pub realtime.Publisher
}

func (h *Handler) Register(rt *middleware.Router) {
	rt.POST("/messages", h.HandlerSend, middleware.RouteOpt{IsAuth: true})
	rt.GET("/messages/:peer", h.HandlerConversation, middleware.RouteOpt{IsAuth: true})
}

type sendReq struct {
	To   string `json:"to" binding:"required"`
	Text string `json:"text" binding:"required"`
}

func (h *Handler) HandlerSend(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	m, err := service.Send(c.Request.Context(), h.DB, h.Pub,
		c.GetString(middleware.CtxUserID), req.To, req.Text)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, m)
}

func (h *Handler) HandlerConversation(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	out, err := service.Conversation(c.Request.Context(), h.DB,
		c.GetString(middleware.CtxUserID), c.Param("peer"), limit)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, out)
}
