package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opentalent/talentgraph-backend/internal/domain"
	"github.com/opentalent/talentgraph-backend/internal/http/response"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
	"github.com/opentalent/talentgraph-backend/internal/services"
)

// SyncHandler receives change notifications from the authoritative store and
// forwards them to the graph synchronizer.
type SyncHandler struct {
	log  *logger.Logger
	sync services.SyncService
}

func NewSyncHandler(log *logger.Logger, sync services.SyncService) *SyncHandler {
	return &SyncHandler{
		log:  log.With("handler", "SyncHandler"),
		sync: sync,
	}
}

type personPayload struct {
	Name      string              `json:"name"`
	Role      string              `json:"role"`
	CompanyID string              `json:"companyId"`
	Skills    []domain.SkillLevel `json:"skills"`
	Interests []string            `json:"interests"`
}

func (h *SyncHandler) UpsertPerson(c *gin.Context) {
	var body personPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := h.sync.OnPersonChanged(c.Request.Context(), services.PersonChange{
		ID:               c.Param("id"),
		Name:             body.Name,
		Role:             body.Role,
		CompanyID:        body.CompanyID,
		Skills:           body.Skills,
		SkillsPresent:    body.Skills != nil,
		Interests:        body.Interests,
		InterestsPresent: body.Interests != nil,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

func (h *SyncHandler) DeletePerson(c *gin.Context) {
	if err := h.sync.OnPersonDeleted(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

type jobPayload struct {
	Title           string   `json:"title"`
	CompanyID       string   `json:"companyId"`
	MandatorySkills []string `json:"mandatorySkills"`
	DesirableSkills []string `json:"desirableSkills"`
}

func (h *SyncHandler) UpsertJob(c *gin.Context) {
	var body jobPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	requirementsPresent := body.MandatorySkills != nil || body.DesirableSkills != nil
	err := h.sync.OnJobChanged(c.Request.Context(), services.JobChange{
		ID:                  c.Param("id"),
		Title:               body.Title,
		CompanyID:           body.CompanyID,
		MandatorySkills:     body.MandatorySkills,
		DesirableSkills:     body.DesirableSkills,
		RequirementsPresent: requirementsPresent,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

func (h *SyncHandler) DeleteJob(c *gin.Context) {
	if err := h.sync.OnJobDeleted(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

type companyPayload struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

func (h *SyncHandler) UpsertCompany(c *gin.Context) {
	var body companyPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := h.sync.OnCompanyChanged(c.Request.Context(), services.CompanyChange{
		ID:       c.Param("id"),
		Name:     body.Name,
		Industry: body.Industry,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

func (h *SyncHandler) DeleteCompany(c *gin.Context) {
	if err := h.sync.OnCompanyDeleted(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

type coursePayload struct {
	Title    string                `json:"title"`
	Provider string                `json:"provider"`
	Grants   []domain.GrantedSkill `json:"grants"`
}

func (h *SyncHandler) UpsertCourse(c *gin.Context) {
	var body coursePayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := h.sync.OnCourseChanged(c.Request.Context(), services.CourseChange{
		ID:       c.Param("id"),
		Title:    body.Title,
		Provider: body.Provider,
		Grants:   body.Grants,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

func (h *SyncHandler) DeleteCourse(c *gin.Context) {
	if err := h.sync.OnCourseDeleted(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"id": c.Param("id")})
}

type applicationPayload struct {
	PersonID string `json:"personId"`
	JobID    string `json:"jobId"`
}

func (h *SyncHandler) RecordApplication(c *gin.Context) {
	var body applicationPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.sync.OnApplication(c.Request.Context(), body.PersonID, body.JobID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"personId": body.PersonID, "jobId": body.JobID})
}

type enrollmentPayload struct {
	PersonID       string `json:"personId"`
	CourseID       string `json:"courseId"`
	Progress       int    `json:"progress"`
	Grade          *int   `json:"grade"`
	CertificateURL string `json:"certificateUrl"`
}

func (h *SyncHandler) RecordEnrollmentProgress(c *gin.Context) {
	var body enrollmentPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := h.sync.OnEnrollmentProgress(c.Request.Context(), body.PersonID, body.CourseID, body.Progress, body.Grade)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"personId": body.PersonID, "courseId": body.CourseID})
}

func (h *SyncHandler) RecordEnrollmentCompletion(c *gin.Context) {
	var body enrollmentPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	err := h.sync.OnEnrollmentComplete(c.Request.Context(), body.PersonID, body.CourseID, body.Grade, body.CertificateURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"personId": body.PersonID, "courseId": body.CourseID})
}
