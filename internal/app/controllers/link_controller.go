package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/app/services"
	"github.com/yigit/rosterhub/internal/middleware"
)

// LinkController handles the parent-student link workflow
type LinkController struct {
	linkService *services.LinkService
}

// NewLinkController creates a new LinkController
func NewLinkController(linkService *services.LinkService) *LinkController {
	return &LinkController{linkService: linkService}
}

// RequestLink requests association of a parent account with a student
// @Summary Request a parent-student link
// @Description Moves the link to PENDING. Parents link their own account; staff may pass an explicit parentId. Allowed only when no link exists or the previous request was rejected.
// @Tags links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.RequestLinkRequest true "Link request"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Link request recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student or parent not found"
// @Failure 409 {object} dto.ErrorResponse "A link request is already pending or approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/link [post]
func (c *LinkController) RequestLink(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		return
	}

	var req dto.RequestLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	parentID := req.ParentID
	if ctx.GetString(middleware.CtxRole) == string(models.RoleParent) {
		// Parents may only link their own account.
		parentID = middleware.AccountID(ctx)
	}

	if err := c.linkService.RequestLink(ctx, id, parentID, req.Relationship); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Link request recorded"},
		Timestamp: time.Now(),
	})
}

// ApproveLink approves a pending link
// @Summary Approve a pending link
// @Description Moves a PENDING link to APPROVED. Fails if the link is in any other state.
// @Tags links
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Link approved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Link is not pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/link/approve [post]
func (c *LinkController) ApproveLink(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		return
	}

	if err := c.linkService.ApproveLink(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Link approved"},
		Timestamp: time.Now(),
	})
}

// RejectLink rejects a pending link with a reason
// @Summary Reject a pending link
// @Description Moves a PENDING link to REJECTED with a mandatory reason. Rejected links are swept back to no-link after the retention window.
// @Tags links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.RejectLinkRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Link rejected"
// @Failure 400 {object} dto.ErrorResponse "Missing rejection reason"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Link is not pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/link/reject [post]
func (c *LinkController) RejectLink(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		return
	}

	var req dto.RejectLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	if err := c.linkService.RejectLink(ctx, id, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Link rejected"},
		Timestamp: time.Now(),
	})
}

// Unlink returns an approved link to pending
// @Summary Unlink a student
// @Description Returns an APPROVED link to PENDING, keeping the parent reference so the association can be re-reviewed.
// @Tags links
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Link returned to pending"
// @Failure 403 {object} dto.ErrorResponse "Parent does not hold this student's link"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Link is not approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/link [delete]
func (c *LinkController) Unlink(ctx *gin.Context) {
	id, err := pathID(ctx)
	if err != nil {
		return
	}

	actor := models.Actor{
		AccountID: middleware.AccountID(ctx),
		Email:     ctx.GetString(middleware.CtxEmail),
		Role:      models.ActorRole(ctx.GetString(middleware.CtxRole)),
	}

	if err := c.linkService.UnlinkStudent(ctx, id, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Link returned to pending"},
		Timestamp: time.Now(),
	})
}

// SweepRejections clears rejected links older than the retention window
// @Summary Sweep expired rejections
// @Description Clears rejected links whose rejection is older than the retention window, freeing those students for new link requests.
// @Tags links
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SweepResponse} "Sweep result"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /links/sweep [post]
func (c *LinkController) SweepRejections(ctx *gin.Context) {
	cleared, err := c.linkService.SweepExpiredRejections(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SweepResponse{Cleared: cleared},
		Timestamp: time.Now(),
	})
}
