package admin_controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
	"github.com/rentfest/web/utils"
)

// AdminController handles listing-request moderation.
type AdminController struct {
	Client    *clients.RentfestClient
	Directory *directory.Directory
}

func NewAdminController(client *clients.RentfestClient, dir *directory.Directory) *AdminController {
	return &AdminController{Client: client, Directory: dir}
}

// Dashboard renders the admin landing page.
func (ac *AdminController) Dashboard(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	listings, _ := ac.Directory.Listings(c.Request.Context())
	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"Session":       sess,
		"ApprovedCount": len(listings),
		"Msg":           c.Query("msg"),
	})
}

// ShowRequest looks up a user's listing request and renders the moderation
// form.
func (ac *AdminController) ShowRequest(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "No request found.", "Session": sess})
		return
	}

	request, err := ac.Client.ListingRequestByUser(c.Request.Context(), sess.Token, userID)
	if err != nil {
		logger.WarnLogger.Warnf("Failed to load listing request for user %d: %v", userID, err)
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Failed to load request details.", "Session": sess})
		return
	}

	c.HTML(http.StatusOK, "admin_request.html", gin.H{
		"Session":     sess,
		"Request":     request,
		"StatusLabel": models.RequestStatusLabel(request.Status),
		"UserID":      userID,
		"Error":       c.Query("err"),
		"Msg":         c.Query("msg"),
	})
}

type updateStatusForm struct {
	Status        string `form:"status"`
	AdminResponse string `form:"adminResponse"`
}

// UpdateStatus applies a moderation decision and refreshes the listing
// directory so an approval shows up immediately.
func (ac *AdminController) UpdateStatus(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "No request found.", "Session": sess})
		return
	}

	var form updateStatusForm
	if err := c.ShouldBind(&form); err != nil {
		ac.redirectRequest(c, userID, "err", "Invalid form data")
		return
	}

	status, ok := statusCode(form.Status)
	if !ok {
		ac.redirectRequest(c, userID, "err", "Unknown status")
		return
	}

	if err := ac.Client.UpdateRequestStatus(c.Request.Context(), sess.Token, userID, status, form.AdminResponse); err != nil {
		logger.ErrorLogger.Errorf("Status update for user %d failed: %v", userID, err)
		ac.redirectRequest(c, userID, "err", updateErrorMessage(err))
		return
	}

	if err := ac.Directory.Refresh(c.Request.Context()); err != nil {
		logger.WarnLogger.Warnf("Directory refresh after moderation failed: %v", err)
	}

	logger.InfoLogger.Infof("Listing request of user %d set to %s by %s", userID, form.Status, sess.Username)
	ac.redirectRequest(c, userID, "msg", "Request status updated successfully!")
}

func (ac *AdminController) redirectRequest(c *gin.Context, userID int64, key, msg string) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/admin/requests/%d?%s=%s", userID, key, url.QueryEscape(msg)))
}

func statusCode(label string) (int, bool) {
	switch label {
	case "Pending":
		return models.RequestStatusPending, true
	case "Approved":
		return models.RequestStatusApproved, true
	case "Rejected":
		return models.RequestStatusRejected, true
	}
	return 0, false
}

func updateErrorMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Update failed!"
}
