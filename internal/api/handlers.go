package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/logger"
	"github.com/aeriel/clai/internal/slide"
	"github.com/aeriel/clai/internal/studio"
)

// Handler serves the authoring API on top of a studio.Service.
type Handler struct {
	svc *studio.Service
	log *logger.Logger
}

func NewHandler(svc *studio.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, log: log.With("component", "api")}
}

// CreateCourse outlines a course from a form submission without saving it.
// Fields: title, description, lessonCount.
func (h *Handler) CreateCourse(c *gin.Context) {
	count, err := strconv.Atoi(c.PostForm("lessonCount"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "lessonCount must be a whole number.")
		return
	}
	stubs, err := h.svc.OutlineCourse(c.Request.Context(), c.PostForm("title"), c.PostForm("description"), count)
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			respondStudioError(c, err)
			return
		}
		h.log.Error("create course failed", "error", err)
		respondError(c, http.StatusInternalServerError, serverErrorMessage)
		return
	}
	c.JSON(http.StatusOK, stubs)
}

func (h *Handler) ListCourses(c *gin.Context) {
	cs, err := h.svc.ListCourses(c.Request.Context())
	if err != nil {
		respondStudioError(c, err)
		return
	}
	if cs == nil {
		cs = []course.Course{}
	}
	c.JSON(http.StatusOK, cs)
}

func (h *Handler) PostCourse(c *gin.Context) {
	var in studio.CourseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	created, err := h.svc.CreateCourse(c.Request.Context(), in)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetCourse(c *gin.Context) {
	got, err := h.svc.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, got)
}

func (h *Handler) PatchCourse(c *gin.Context) {
	var p studio.CoursePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	updated, err := h.svc.UpdateCourse(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListLessons(c *gin.Context) {
	ls, err := h.svc.ListLessons(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStudioError(c, err)
		return
	}
	if ls == nil {
		ls = []course.Lesson{}
	}
	c.JSON(http.StatusOK, ls)
}

func (h *Handler) PostLesson(c *gin.Context) {
	var in studio.LessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	created, err := h.svc.CreateLesson(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type generateRequest struct {
	Count   int    `json:"count"`
	Context string `json:"context"`
}

func (h *Handler) GenerateLessons(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	ls, err := h.svc.GenerateLessons(c.Request.Context(), c.Param("id"), req.Count)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ls)
}

type moveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// moveArgs reads the :index path parameter and the direction body.
func moveArgs(c *gin.Context) (int, course.Direction, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "index must be a whole number.")
		return 0, 0, false
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return 0, 0, false
	}
	d, err := course.ParseDirection(req.Direction)
	if err != nil {
		respondError(c, http.StatusBadRequest, "direction must be up or down.")
		return 0, 0, false
	}
	return index, d, true
}

func (h *Handler) MoveLesson(c *gin.Context) {
	index, d, ok := moveArgs(c)
	if !ok {
		return
	}
	ls, moved, err := h.svc.MoveLesson(c.Request.Context(), c.Param("id"), index, d)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "lessons": ls})
}

func (h *Handler) GetLesson(c *gin.Context) {
	l, err := h.svc.GetLesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) PatchLesson(c *gin.Context) {
	var p studio.LessonPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	updated, err := h.svc.UpdateLesson(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListSlides(c *gin.Context) {
	sl, err := h.svc.ListSlides(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStudioError(c, err)
		return
	}
	if sl == nil {
		sl = []slide.Slide{}
	}
	c.JSON(http.StatusOK, sl)
}

func (h *Handler) GenerateSlides(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	sl, err := h.svc.GenerateSlides(c.Request.Context(), c.Param("id"), req.Count, req.Context)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sl)
}

func (h *Handler) MoveSlide(c *gin.Context) {
	index, d, ok := moveArgs(c)
	if !ok {
		return
	}
	sl, moved, err := h.svc.MoveSlide(c.Request.Context(), c.Param("id"), index, d)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "slides": sl})
}

// PutSlide replaces a slide's question and content. The body is a full
// slide object and is validated before anything is written.
func (h *Handler) PutSlide(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	edited, err := slide.ValidateJSON(body)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	edited.ID = c.Param("id")
	saved, err := h.svc.EditSlide(c.Request.Context(), edited)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

type reflectionRequest struct {
	Prompt     string `json:"prompt"`
	Reflection string `json:"reflection"`
}

func (h *Handler) Reflect(c *gin.Context) {
	var req reflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	text, err := h.svc.ReflectionFeedback(c.Request.Context(), req.Prompt, req.Reflection)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": text})
}

type clarifyRequest struct {
	Topic string `json:"topic"`
}

func (h *Handler) Clarify(c *gin.Context) {
	var req clarifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	text, err := h.svc.Clarify(c.Request.Context(), req.Topic)
	if err != nil {
		respondStudioError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": text})
}
