// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stockroomhq/stockroom-backend/internal/services"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses:
// validation errors are 400, referential protection is 409, missing
// records are 404, anything else is a 500. Handlers never inspect error
// strings.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		utils.BadRequestResponse(c, validationErr.Message, gin.H{"field": validationErr.Field})
		return
	}

	var protectionErr *services.ReferentialProtectionError
	if errors.As(err, &protectionErr) {
		utils.ConflictResponse(c, protectionErr.Message)
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		utils.NotFoundResponse(c, notFoundErr.Error())
		return
	}

	utils.InternalErrorResponse(c, err.Error())
}
