package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yukikurage/secure-todo/internal/errors"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/middleware"
	"github.com/yukikurage/secure-todo/internal/services"
)

type TodoHandler struct {
	todoService *services.TodoService
	authService *services.AuthService
	log         *logger.Logger
}

func NewTodoHandler(todoService *services.TodoService, authService *services.AuthService, log *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		authService: authService,
		log:         log,
	}
}

type taskForm struct {
	Task string `form:"task"`
}

// Index renders the shared todo list
func (h *TodoHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, "")
}

// Add creates a todo from the task form field. An empty task is ignored.
func (h *TodoHandler) Add(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var form taskForm
	_ = c.ShouldBind(&form)

	_, err := h.todoService.Create(services.CreateTodoInput{
		ActorID: userID,
		Task:    form.Task,
	})
	h.redirectAfterMutation(c, err)
}

// Delete removes a todo; unknown IDs are ignored
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c)
		return
	}
	userID, _ := middleware.GetUserID(c)

	_, err := h.todoService.Delete(userID, id)
	h.redirectAfterMutation(c, err)
}

// Toggle flips the done flag; unknown IDs are ignored
func (h *TodoHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c)
		return
	}
	userID, _ := middleware.GetUserID(c)

	_, err := h.todoService.Toggle(userID, id)
	h.redirectAfterMutation(c, err)
}

// Update replaces the task text; unknown IDs and empty text are ignored
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		apperrors.NotFound(c)
		return
	}
	userID, _ := middleware.GetUserID(c)

	var form taskForm
	_ = c.ShouldBind(&form)

	_, err := h.todoService.Update(services.UpdateTodoInput{
		ActorID: userID,
		ID:      id,
		Task:    form.Task,
	})
	h.redirectAfterMutation(c, err)
}

// CSRFFailed re-renders the list with the token error and status 400.
func (h *TodoHandler) CSRFFailed(c *gin.Context, err error) {
	h.renderIndex(c, http.StatusBadRequest, err.Error())
}

func (h *TodoHandler) redirectAfterMutation(c *gin.Context, err error) {
	switch {
	case err == nil,
		errors.Is(err, services.ErrTodoNotFound),
		errors.Is(err, services.ErrTaskRequired):
		apperrors.Redirect(c, "/")
	case errors.Is(err, services.ErrTaskTooLong):
		apperrors.RedirectWithFlash(c, "/", apperrors.MsgTaskTooLong)
	default:
		requestLog(h.log, c).Errorf("todo operation failed: %v", err)
		apperrors.InternalError(c, "")
	}
}

func (h *TodoHandler) renderIndex(c *gin.Context, status int, formError string) {
	todos, err := h.todoService.ListAll()
	if err != nil {
		requestLog(h.log, c).Errorf("listing todos failed: %v", err)
		apperrors.InternalError(c, apperrors.MsgTodoListUnavailable)
		return
	}

	username := ""
	if userID, ok := middleware.GetUserID(c); ok {
		if user, err := h.authService.GetUser(userID); err == nil {
			username = user.Username
		}
	}

	renderPage(c, status, "index.html", gin.H{
		"Title":    "Todo List",
		"Todos":    todos,
		"Username": username,
		"Error":    formError,
	})
}
