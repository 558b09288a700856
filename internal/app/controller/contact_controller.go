package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

type ContactRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,lfsemail"`
	Subject      string `json:"subject" binding:"max=200"`
	Message      string `json:"message" binding:"required,max=5000"`
	CaptchaToken string `json:"captchaToken" binding:"required"`
}

// Send relays a contact form message after captcha verification
// POST /api/v1/contact
func (ctrl *ContactController) Send(c *gin.Context) {
	var req ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	err := ctrl.contactService.Send(c.Request.Context(), service.ContactInput{
		Name:         req.Name,
		Email:        req.Email,
		Subject:      req.Subject,
		Message:      req.Message,
		CaptchaToken: req.CaptchaToken,
		RemoteIP:     middleware.ClientIP(c),
	})
	if err != nil {
		respondServiceError(c, err, "contact send")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message sent",
	})
}
