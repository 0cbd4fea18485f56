package listing_controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/directory"
	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
	"github.com/rentfest/web/utils"
)

// ListingController renders the public listing views and the create-request
// form.
type ListingController struct {
	Client    *clients.RentfestClient
	Directory *directory.Directory
}

func NewListingController(client *clients.RentfestClient, dir *directory.Directory) *ListingController {
	return &ListingController{Client: client, Directory: dir}
}

func (lc *ListingController) sessionOrNil(c *gin.Context) *models.Session {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		return nil
	}
	return sess
}

// Home renders the landing page with a featured slice of listings.
func (lc *ListingController) Home(c *gin.Context) {
	listings, err := lc.Directory.Listings(c.Request.Context())
	if err != nil {
		// The landing page still renders; the grid shows the failure.
		c.HTML(http.StatusOK, "home.html", gin.H{
			"Session": lc.sessionOrNil(c),
			"Error":   "Failed to fetch properties.",
		})
		return
	}

	featured := listings
	if len(featured) > 6 {
		featured = featured[:6]
	}
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Session":  lc.sessionOrNil(c),
		"Listings": featured,
	})
}

// PropertyList renders the approved-listing grid.
func (lc *ListingController) PropertyList(c *gin.Context) {
	listings, err := lc.Directory.Listings(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusOK, "property_list.html", gin.H{
			"Session": lc.sessionOrNil(c),
			"Error":   "Failed to fetch properties.",
		})
		return
	}
	c.HTML(http.StatusOK, "property_list.html", gin.H{
		"Session":  lc.sessionOrNil(c),
		"Listings": listings,
		"Msg":      c.Query("msg"),
	})
}

// PropertyDetails renders one listing. Booking is gated on approval status.
func (lc *ListingController) PropertyDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Property not found"})
		return
	}

	sess := lc.sessionOrNil(c)
	token := ""
	if sess != nil {
		token = sess.Token
	}

	listing, err := lc.Client.ListingByID(c.Request.Context(), token, id)
	if err != nil {
		logger.WarnLogger.Warnf("Failed to load listing %d: %v", id, err)
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Failed to load property details"})
		return
	}

	c.HTML(http.StatusOK, "property_details.html", gin.H{
		"Session": sess,
		"Listing": listing,
	})
}

// ShowCreateRequest renders the listing-request form.
func (lc *ListingController) ShowCreateRequest(c *gin.Context) {
	c.HTML(http.StatusOK, "create_request.html", gin.H{
		"Session":    lc.sessionOrNil(c),
		"Categories": models.ListingCategories,
		"Locations":  models.ListingLocations,
		"Error":      c.Query("err"),
		"Msg":        c.Query("msg"),
	})
}

type createRequestForm struct {
	Name        string  `form:"name"`
	Category    string  `form:"category"`
	ImageURL    string  `form:"imageUrl"`
	Price       float64 `form:"price"`
	PriceUnit   string  `form:"priceUnit"`
	Location    string  `form:"location"`
	Description string  `form:"description"`
	Bedrooms    int     `form:"bedrooms"`
	Bathrooms   int     `form:"bathrooms"`
}

// CreateRequest submits a new property listing request for moderation.
func (lc *ListingController) CreateRequest(c *gin.Context) {
	sess, err := utils.SessionFromContext(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var form createRequestForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/requests/new?err="+url.QueryEscape("Invalid form data"))
		return
	}

	if strings.TrimSpace(form.Name) == "" || form.Category == "" || form.Location == "" || form.Price <= 0 {
		c.Redirect(http.StatusFound, "/requests/new?err="+url.QueryEscape("Name, category, location and a positive price are required."))
		return
	}

	payload := models.ListingRequestPayload{
		UserID:      sess.UserID,
		Name:        strings.TrimSpace(form.Name),
		Category:    form.Category,
		ImageURL:    form.ImageURL,
		Price:       form.Price,
		PriceUnit:   models.PriceUnitCode(form.PriceUnit),
		Location:    form.Location,
		Description: form.Description,
		Bedrooms:    form.Bedrooms,
		Bathrooms:   form.Bathrooms,
	}

	if err := lc.Client.CreateListingRequest(c.Request.Context(), sess.Token, payload); err != nil {
		logger.WarnLogger.Warnf("Listing request by %s failed: %v", sess.Username, err)
		c.Redirect(http.StatusFound, "/requests/new?err="+url.QueryEscape(backendMessage(err)))
		return
	}

	if err := lc.Directory.Refresh(c.Request.Context()); err != nil {
		logger.WarnLogger.Warnf("Directory refresh after request submission failed: %v", err)
	}

	logger.InfoLogger.Infof("Listing request %q submitted by %s", payload.Name, sess.Username)
	c.Redirect(http.StatusFound, "/requests/new?msg="+url.QueryEscape("Property listing request submitted successfully."))
}

func backendMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to create request"
}
