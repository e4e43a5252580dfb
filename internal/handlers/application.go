// internal/handlers/application.go
package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/services"
	"github.com/scholartrack/backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	storageService     *services.StorageService
}

func NewApplicationHandler(applicationService *services.ApplicationService, storageService *services.StorageService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		storageService:     storageService,
	}
}

// Apply submits a new application. Accepts JSON with pre-uploaded document
// URLs, or a multipart form with the documents attached.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ApplyRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		parsed, err := h.parseMultipartApplication(c)
		if err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		req = *parsed
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	application, err := h.applicationService.Apply(userID, &req)
	if err != nil {
		handleServiceError(c, err, "Scholarship")
		return
	}

	utils.CreatedResponse(c, application)
}

func (h *ApplicationHandler) parseMultipartApplication(c *gin.Context) (*services.ApplyRequest, error) {
	userID, _ := currentUserID(c)

	cgpa, _ := strconv.ParseFloat(c.PostForm("cgpa"), 64)
	income, _ := strconv.ParseFloat(c.PostForm("income"), 64)

	req := &services.ApplyRequest{
		ScholarshipID: c.PostForm("scholarship_id"),
		FullName:      c.PostForm("full_name"),
		Email:         c.PostForm("email"),
		Mobile:        c.PostForm("mobile"),
		DOB:           c.PostForm("dob"),
		Gender:        c.PostForm("gender"),
		Institution:   c.PostForm("institution"),
		Course:        c.PostForm("course"),
		Year:          c.PostForm("year"),
		CGPA:          cgpa,
		Income:        income,
		FatherName:    c.PostForm("father_name"),
		Occupation:    c.PostForm("occupation"),
		Address:       c.PostForm("address"),
		State:         c.PostForm("state"),
		Pincode:       c.PostForm("pincode"),
		AccountHolder: c.PostForm("account_holder"),
		BankName:      c.PostForm("bank_name"),
		AccountNumber: c.PostForm("account_number"),
		IFSC:          c.PostForm("ifsc"),
	}

	options := services.DocumentUploadOptions(userID)

	upload := func(field string) (string, error) {
		file, header, err := c.Request.FormFile(field)
		if err != nil {
			return "", nil // field not provided
		}
		defer file.Close()

		result, err := h.storageService.UploadFile(file, header, options)
		if err != nil {
			return "", err
		}
		return result.URL, nil
	}

	var err error
	if req.IDProofURL, err = upload("id_proof"); err != nil {
		return nil, err
	}
	if req.IncomeCertURL, err = upload("income_cert"); err != nil {
		return nil, err
	}
	if req.BonafideURL, err = upload("bonafide"); err != nil {
		return nil, err
	}

	if form, formErr := c.MultipartForm(); formErr == nil && form != nil {
		for _, header := range form.File["marksheets"] {
			url, uploadErr := h.uploadHeader(header, options)
			if uploadErr != nil {
				return nil, uploadErr
			}
			req.MarksheetURLs = append(req.MarksheetURLs, url)
		}
	}

	return req, nil
}

// parseMultipartUpdate reads the amendable form fields and any re-uploaded
// documents. Absent fields stay nil and are left unchanged.
func (h *ApplicationHandler) parseMultipartUpdate(c *gin.Context) (*services.UpdateApplicationRequest, error) {
	userID, _ := currentUserID(c)
	req := &services.UpdateApplicationRequest{}

	if v, ok := c.GetPostForm("cgpa"); ok {
		cgpa, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		req.CGPA = &cgpa
	}
	if v, ok := c.GetPostForm("income"); ok {
		income, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		req.Income = &income
	}
	if v, ok := c.GetPostForm("account_holder"); ok {
		req.AccountHolder = &v
	}
	if v, ok := c.GetPostForm("bank_name"); ok {
		req.BankName = &v
	}
	if v, ok := c.GetPostForm("account_number"); ok {
		req.AccountNumber = &v
	}
	if v, ok := c.GetPostForm("ifsc"); ok {
		req.IFSC = &v
	}

	options := services.DocumentUploadOptions(userID)

	upload := func(field string, dest **string) error {
		file, header, err := c.Request.FormFile(field)
		if err != nil {
			return nil // field not provided
		}
		defer file.Close()

		result, uploadErr := h.storageService.UploadFile(file, header, options)
		if uploadErr != nil {
			return uploadErr
		}
		*dest = &result.URL
		return nil
	}

	if err := upload("id_proof", &req.IDProofURL); err != nil {
		return nil, err
	}
	if err := upload("income_cert", &req.IncomeCertURL); err != nil {
		return nil, err
	}
	if err := upload("bonafide", &req.BonafideURL); err != nil {
		return nil, err
	}

	if form, formErr := c.MultipartForm(); formErr == nil && form != nil {
		if headers := form.File["marksheets"]; len(headers) > 0 {
			urls := make([]string, 0, len(headers))
			for _, header := range headers {
				url, uploadErr := h.uploadHeader(header, options)
				if uploadErr != nil {
					return nil, uploadErr
				}
				urls = append(urls, url)
			}
			req.MarksheetURLs = &urls
		}
	}

	return req, nil
}

func (h *ApplicationHandler) uploadHeader(header *multipart.FileHeader, options services.UploadOptions) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// GetMyApplications lists the caller's applications.
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.applicationService.GetMyApplications(userID, params)
	if err != nil {
		handleServiceError(c, err, "Applications")
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GetApplication returns one application with scholarship and timeline.
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	application, err := h.applicationService.GetApplication(userID, role, applicationID)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	utils.SuccessResponse(c, application)
}

// GetTimeline returns the status history, oldest first.
func (h *ApplicationHandler) GetTimeline(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	entries, err := h.applicationService.GetTimeline(userID, role, applicationID)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	utils.SuccessResponse(c, entries)
}

// Withdraw moves the caller's application to Withdrawn.
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	application, err := h.applicationService.Withdraw(userID, applicationID)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	logrus.WithField("application_id", applicationID).Info("Application withdrawn")
	utils.SuccessResponse(c, application)
}

// Update amends the mutable fields of a pending application.
func (h *ApplicationHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateApplicationRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		parsed, err := h.parseMultipartUpdate(c)
		if err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		req = *parsed
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	application, err := h.applicationService.Update(userID, applicationID, &req)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	utils.SuccessResponse(c, application)
}

// ListApplications is the admin review table with filters.
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := services.ApplicationFilters{
		Status: c.Query("status"),
		Search: params.Search,
	}

	result, err := h.applicationService.ListApplications(filters, params)
	if err != nil {
		handleServiceError(c, err, "Applications")
		return
	}

	utils.PaginatedResponse(c, *result)
}

// UpdateStatus applies an admin workflow decision.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	applicationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status  string `json:"status" binding:"required"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	application, err := h.applicationService.TransitionStatus(applicationID, models.ApplicationStatus(req.Status), req.Message)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	utils.SuccessResponse(c, application)
}
