package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"books/cache"
	"books/models"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	Library models.Library
	Metrics *Metrics
}

func bookPath(id models.Id) string {
	return "/books/" + string(id)
}

func (h *BookHandler) List(c *gin.Context) {
	books, err := h.Library.FindAll(c.Request.Context())
	if err != nil {
		abortWith(c, InternalError(err))
		return
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"title": "Books",
		"books": books,
		"stats": models.StatsOf(books),
	})
}

func (h *BookHandler) NewForm(c *gin.Context) {
	c.HTML(http.StatusOK, "new-book", gin.H{
		"title": "New Book",
		"book":  models.Book{},
	})
}

func (h *BookHandler) Create(c *gin.Context) {
	var fields models.BookFields
	if err := c.ShouldBind(&fields); err != nil {
		abortWith(c, BadRequest(err))
		return
	}

	result := h.Library.Create(c.Request.Context(), fields)
	h.Metrics.ObserveResult("create", result)

	switch result.Outcome {
	case models.OutcomeOk:
		c.Redirect(http.StatusFound, bookPath(result.Book.ID))
	case models.OutcomeValidationFailed:
		c.HTML(http.StatusOK, "new-book", gin.H{
			"title":  "New Book",
			"book":   h.Library.Build(fields),
			"errors": result.Messages,
		})
	default:
		abortWith(c, InternalError(result.Err))
	}
}

// Show renders the edit form. An unknown id is reported as a server error,
// like Delete and unlike Update.
func (h *BookHandler) Show(c *gin.Context) {
	id := models.Id(c.Param("id"))

	book, found, err := h.Library.FindByPk(c.Request.Context(), id)
	if err != nil {
		abortWith(c, InternalError(err))
		return
	}
	if !found {
		abortWith(c, InternalError(fmt.Errorf("book %s not found", id)))
		return
	}

	c.HTML(http.StatusOK, "update-book", gin.H{
		"title": book.Title,
		"book":  book,
	})
}

func (h *BookHandler) Update(c *gin.Context) {
	id := models.Id(c.Param("id"))

	book, found, err := h.Library.FindByPk(c.Request.Context(), id)
	if err != nil {
		abortWith(c, InternalError(err))
		return
	}
	if !found {
		c.HTML(http.StatusNotFound, "error", gin.H{
			"title":   "Book Not Found",
			"status":  http.StatusNotFound,
			"message": "Sorry! We couldn't find the book you were looking for.",
		})
		return
	}

	var fields models.BookFields
	if err := c.ShouldBind(&fields); err != nil {
		abortWith(c, BadRequest(err))
		return
	}

	result := h.Library.Update(c.Request.Context(), book, fields)
	h.Metrics.ObserveResult("update", result)

	switch result.Outcome {
	case models.OutcomeOk:
		c.Redirect(http.StatusFound, bookPath(id))
	case models.OutcomeValidationFailed:
		rebuilt := h.Library.Build(fields)
		rebuilt.ID = id
		c.HTML(http.StatusOK, "update-book", gin.H{
			"title":  "Edit Book",
			"book":   rebuilt,
			"errors": result.Messages,
		})
	default:
		abortWith(c, InternalError(result.Err))
	}
}

func (h *BookHandler) Delete(c *gin.Context) {
	id := models.Id(c.Param("id"))

	book, found, err := h.Library.FindByPk(c.Request.Context(), id)
	if err != nil {
		abortWith(c, InternalError(err))
		return
	}
	if !found {
		abortWith(c, InternalError(fmt.Errorf("book %s not found", id)))
		return
	}

	if err := h.Library.Destroy(c.Request.Context(), book); err != nil {
		abortWith(c, InternalError(err))
		return
	}

	c.Redirect(http.StatusFound, "/books")
}

func (h *BookHandler) Health(c *gin.Context) {
	if pinger, ok := h.Library.(models.Pinger); ok {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

type ActivityHandler struct {
	Cacher cache.RequestCacher
	Logger *slog.Logger
}

func (h *ActivityHandler) Activity(c *gin.Context) {
	username := c.Param("username")

	userRequests, err := cache.Recent(h.Cacher, username)
	if err != nil {
		abortWith(c, InternalError(err))
		return
	}

	c.HTML(http.StatusOK, "activity", gin.H{
		"title":    "Activity",
		"username": username,
		"requests": userRequests,
	})
}

// CacheUserRequest remembers the request for the visitor named in the
// username query parameter.
func (h *ActivityHandler) CacheUserRequest(c *gin.Context) {
	username, ok := c.GetQuery("username")

	if ok && username != "" {
		userRequest := models.UserRequest{
			Method: c.Request.Method,
			Route:  c.Request.URL.Path,
			At:     time.Now().UTC(),
		}

		// Not failing a request if there's a problem caching it
		if err := cache.Record(h.Cacher, username, userRequest); err != nil {
			h.Logger.WarnContext(c.Request.Context(), "caching user request failed",
				slog.String("username", username),
				slog.Any("error", err),
			)
		}
	}

	c.Next()
}
