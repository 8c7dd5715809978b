package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextSubjectID is the context key the auth middleware sets.
const ContextSubjectID = "subject_id"

var errNoSubject = errors.New("no authenticated subject in context")

// SubjectID returns the authenticated subject's UUID.
func SubjectID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(ContextSubjectID)
	if raw == "" {
		return uuid.Nil, errNoSubject
	}
	return uuid.Parse(raw)
}
