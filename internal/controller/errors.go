package controller

import (
	"errors"
	"net/http"
	"skillswap/internal/util"
	"skillswap/internal/workflow"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{util.ErrUserNotFound, http.StatusNotFound},
	{util.ErrCategoryNotFound, http.StatusNotFound},
	{util.ErrSkillNotFound, http.StatusNotFound},
	{util.ErrSessionNotFound, http.StatusNotFound},
	{util.ErrReviewNotFound, http.StatusNotFound},

	{util.ErrInvalidCredentials, http.StatusUnauthorized},
	{util.ErrInvalidToken, http.StatusUnauthorized},

	{util.ErrPermissionDenied, http.StatusForbidden},
	{util.ErrNotSkillOwner, http.StatusForbidden},
	{util.ErrNotReviewOwner, http.StatusForbidden},
	{util.ErrReviewNonMember, http.StatusForbidden},
	{workflow.ErrNotParticipant, http.StatusForbidden},
	{workflow.ErrMentorOnly, http.StatusForbidden},

	{util.ErrUsernameTaken, http.StatusConflict},
	{util.ErrEmailRegistered, http.StatusConflict},
	{util.ErrAlreadyReviewed, http.StatusConflict},
	{workflow.ErrInvalidTransition, http.StatusConflict},

	{util.ErrPasswordMismatch, http.StatusBadRequest},
	{util.ErrOwnSkillBooking, http.StatusBadRequest},
	{util.ErrScheduleRequired, http.StatusBadRequest},
	{util.ErrMessageRequired, http.StatusBadRequest},
	{util.ErrChatClosed, http.StatusBadRequest},
	{util.ErrReviewNotAllowed, http.StatusBadRequest},
	{util.ErrReviewedNotMember, http.StatusBadRequest},
	{util.ErrReviewSelf, http.StatusBadRequest},
	{util.ErrInvalidRating, http.StatusBadRequest},
	{util.ErrUserIDRequired, http.StatusBadRequest},
	{util.ErrUnsupportedFileType, http.StatusBadRequest},
	{util.ErrInvalidUserType, http.StatusBadRequest},
	{util.ErrInvalidSkillLevel, http.StatusBadRequest},
	{util.ErrInvalidDuration, http.StatusBadRequest},
	{util.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{workflow.ErrResponseRequired, http.StatusBadRequest},
	{workflow.ErrUnknownAction, http.StatusBadRequest},
}

// handleError writes the response for a service error. Known domain errors
// keep their message; anything else is logged and reported as a 500.
func handleError(ctx *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			util.Error(ctx, e.status, e.err.Error())
			return
		}
	}
	util.LogInternalError(ctx, err)
}

// pathID parses the :id route parameter, answering 404 when it is malformed.
func pathID(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.NotFound(ctx, "Not found")
		return 0, false
	}
	return id, true
}
