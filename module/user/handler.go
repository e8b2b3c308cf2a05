package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hany173g/OtakuZone-sub001/middleware"
	"github.com/Hany173g/OtakuZone-sub001/module/user/service"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
	security "github.com/Hany173g/OtakuZone-sub001/tools/security"
)

type Handler struct {
	DB         *mongo.Database
	JWT        security.Options // session scope
	Production bool
}

func (h *Handler) Register(rt *middleware.Router) {
	rt.POST("/users/register", h.HandlerRegister, middleware.RouteOpt{})
	rt.POST("/users/login", h.HandlerLogin, middleware.RouteOpt{})
	rt.GET("/users/me", h.HandlerMe, middleware.RouteOpt{IsAuth: true})
	rt.GET("/users/:id", h.HandlerGet, middleware.RouteOpt{})
	rt.POST("/users/:id/block", h.HandlerBlock, middleware.RouteOpt{IsAuth: true})
	rt.DELETE("/users/:id/block", h.HandlerUnblock, middleware.RouteOpt{IsAuth: true})
}

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname"`
}

func (h *Handler) HandlerRegister(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	u, err := service.Register(c.Request.Context(), h.DB, service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, u)
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) HandlerLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	u, err := service.Login(c.Request.Context(), h.DB, req.Username, req.Password)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	token, exp, err := security.Issue(h.JWT, u.UserID, security.ScopeSession)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	// Browser clients ride the cookie; API clients keep the token.
	// Secure only in production so local http still works.
	maxAge := int(h.JWT.TTL.Seconds())
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.Production, true)

	c.JSON(http.StatusOK, gin.H{
		"code":       0,
		"token":      token,
		"expires_at": exp,
		"user":       u,
	})
}

func (h *Handler) HandlerMe(c *gin.Context) {
	u, err := service.GetByID(c.Request.Context(), h.DB, c.GetString(middleware.CtxUserID))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, u)
}

func (h *Handler) HandlerGet(c *gin.Context) {
	u, err := service.GetByID(c.Request.Context(), h.DB, c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, u)
}

func (h *Handler) HandlerBlock(c *gin.Context) {
	err := service.Block(c.Request.Context(), h.DB, c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}

func (h *Handler) HandlerUnblock(c *gin.Context) {
	err := service.Unblock(c.Request.Context(), h.DB, c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}
