package handlers

import (
	"net/http"

	"studyhall/internal/models"
	"studyhall/internal/service"
)

// CourseHandler handles course endpoints
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

type courseView struct {
	ID             int64  `json:"id"`
	OrganisationID int64  `json:"organisation_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

func newCourseView(c *models.Course) courseView {
	return courseView{ID: c.ID, OrganisationID: c.OrganisationID, Name: c.Name, Description: c.Description}
}

// Create handles POST /orgs/{id}/courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	course, err := h.courseService.CreateCourse(user.ID, orgID, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCourseView(course))
}

// List handles GET /orgs/{id}/courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	orgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	courses, err := h.courseService.ListCourses(user.ID, orgID)
	if err != nil {
		respondError(w, err)
		return
	}
	views := make([]courseView, 0, len(courses))
	for i := range courses {
		views = append(views, newCourseView(&courses[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /courses/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	courseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	course, err := h.courseService.GetCourse(user.ID, courseID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		courseView
		Skills []skillView `json:"skills"`
	}{newCourseView(&course.Course), skillViews(course.Skills)})
}

// Update handles PUT /courses/{id}
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	courseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.courseService.UpdateCourse(user.ID, courseID, req.Name, req.Description); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// Delete handles DELETE /courses/{id}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	courseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.courseService.DeleteCourse(user.ID, courseID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// LinkSkill handles POST /courses/{id}/skills/{skillId}
func (h *CourseHandler) LinkSkill(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	courseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	skillID, err := pathID(r, "skillId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.courseService.LinkSkill(user.ID, courseID, skillID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct{}{})
}

// UnlinkSkill handles DELETE /courses/{id}/skills/{skillId}
func (h *CourseHandler) UnlinkSkill(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	courseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	skillID, err := pathID(r, "skillId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.courseService.UnlinkSkill(user.ID, courseID, skillID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
