package topic

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Hany173g/OtakuZone-sub001/middleware"
	"github.com/Hany173g/OtakuZone-sub001/module/topic/service"
	"github.com/Hany173g/OtakuZone-sub001/tools/errs"
)

type Handler struct {
	DB *mongo.Database
}

func (h *Handler) Register(rt *middleware.Router) {
	rt.GET("/topics", h.HandlerList, middleware.RouteOpt{})
	rt.GET("/topics/:id", h.HandlerGet, middleware.RouteOpt{})
	rt.POST("/topics", h.HandlerCreate, middleware.RouteOpt{IsAuth: true})
	rt.PUT("/topics/:id", h.HandlerUpdate, middleware.RouteOpt{IsAuth: true})
	rt.DELETE("/topics/:id", h.HandlerDelete, middleware.RouteOpt{IsAuth: true})
	rt.POST("/topics/:id/rate", h.HandlerRate, middleware.RouteOpt{IsAuth: true})
}

type createReq struct {
	Title    string   `json:"title" binding:"required"`
	Body     string   `json:"body" binding:"required"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (h *Handler) HandlerCreate(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	t, err := service.Create(c.Request.Context(), h.DB, service.CreateParams{
		AuthorID: c.GetString(middleware.CtxUserID),
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, t)
}

func (h *Handler) HandlerList(c *gin.Context) {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	perPage, _ := strconv.ParseInt(c.Query("per_page"), 10, 64)
	out, err := service.List(c.Request.Context(), h.DB, c.Query("category"), page, perPage)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	views := make([]gin.H, 0, len(out))
	for i := range out {
		t := &out[i]
		views = append(views, gin.H{
			"topic_id":       t.TopicID,
			"author_id":      t.AuthorID,
			"title":          t.Title,
			"category":       t.Category,
			"tags":           t.Tags,
			"rating_count":   t.RatingCount,
			"average_rating": t.AverageRating(),
			"comment_count":  t.CommentCount,
			"created_at":     t.CreatedAt,
		})
	}
	middleware.OK(c, views)
}

func (h *Handler) HandlerGet(c *gin.Context) {
	t, err := service.Get(c.Request.Context(), h.DB, c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{
		"topic_id":       t.TopicID,
		"author_id":      t.AuthorID,
		"title":          t.Title,
		"body":           t.Body,
		"category":       t.Category,
		"tags":           t.Tags,
		"rating_count":   t.RatingCount,
		"average_rating": t.AverageRating(),
		"comment_count":  t.CommentCount,
		"created_at":     t.CreatedAt,
	})
}

type updateReq struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

func (h *Handler) HandlerUpdate(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	t, err := service.Update(c.Request.Context(), h.DB, c.Param("id"),
		c.GetString(middleware.CtxUserID), req.Title, req.Body)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, t)
}

func (h *Handler) HandlerDelete(c *gin.Context) {
	err := service.Delete(c.Request.Context(), h.DB, c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, nil)
}

type rateReq struct {
	Stars int `json:"stars" binding:"required"`
}

func (h *Handler) HandlerRate(c *gin.Context) {
	var req rateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, errs.ErrValidation.Wrap())
		return
	}
	t, err := service.Rate(c.Request.Context(), h.DB, c.Param("id"),
		c.GetString(middleware.CtxUserID), req.Stars)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	middleware.OK(c, gin.H{
		"topic_id":       t.TopicID,
		"rating_count":   t.RatingCount,
		"average_rating": t.AverageRating(),
	})
}
