package handlers

import (
	"net/http"
	"time"

	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordHandler serves the dashboards and the parent-record wizard of both
// the marketing and finalised_measurements tables.
type RecordHandler struct {
	customerService services.CustomerService
	logger          *zap.Logger
}

func NewRecordHandler(customerService services.CustomerService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{customerService: customerService, logger: logger}
}

type basicDetailsRequest struct {
	PartyName          string `json:"party_name" binding:"required"`
	MobileNumber       string `json:"mobile_number" binding:"required,numeric"`
	Address1           string `json:"address1" binding:"required"`
	Address2           string `json:"address2" binding:"required"`
	StatusOfSite       string `json:"status_of_site" binding:"required,site_status"`
	LegalBillingName   string `json:"legal_billing_name"`
	PartyGSTNumber     string `json:"party_gst_number"`
	Category           string `json:"category" binding:"omitempty,category"`
	MeasurementTakenBy string `json:"measurement_taken_by"`
	Gmap               string `json:"gmap" binding:"required"`
}

func (r basicDetailsRequest) toModel() *models.Customer {
	return &models.Customer{
		PartyName:          r.PartyName,
		MobileNumber:       r.MobileNumber,
		Address1:           r.Address1,
		Address2:           r.Address2,
		StatusOfSite:       r.StatusOfSite,
		LegalBillingName:   r.LegalBillingName,
		PartyGSTNumber:     r.PartyGSTNumber,
		Category:           r.Category,
		MeasurementTakenBy: r.MeasurementTakenBy,
		Gmap:               r.Gmap,
	}
}

// Dates are RFC 3339 timestamps; absent fields are cleared.
type processDetailsRequest struct {
	VisitingDate           *time.Time `json:"visiting_date"`
	VisitingDoneOfSite     *time.Time `json:"visiting_done_of_site"`
	CustomerOfficeVisit    *time.Time `json:"customer_office_visit"`
	FollowUpAfterQuotation *time.Time `json:"follow_up_after_quotation"`
	AdvancePaymentDate     *time.Time `json:"advance_payment_date"`
	AdvancePaymentAmount   string     `json:"advance_payment_amount"`
	Installation           *time.Time `json:"installation"`
	FinishingVisit         *time.Time `json:"finishing_visit"`
	QualityCheckDoneBy     string     `json:"quality_check_done_by"`
}

func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.customerService.List(c.Request.Context(), c.Param("table"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.customerService.Get(c.Request.Context(), c.Param("table"), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.customerService.Delete(c.Request.Context(), c.Param("table"), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *RecordHandler) SaveProcessDetails(c *gin.Context) {
	table := c.Param("table")
	var req processDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if table == models.TableFinalisedMeasurements && req.AdvancePaymentAmount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "advance payment amount is required"})
		return
	}

	result, err := h.customerService.SaveProcessDetails(c.Request.Context(), table, c.Param("id"), services.ProcessDetails{
		VisitingDate:           req.VisitingDate,
		VisitingDoneOfSite:     req.VisitingDoneOfSite,
		CustomerOfficeVisit:    req.CustomerOfficeVisit,
		FollowUpAfterQuotation: req.FollowUpAfterQuotation,
		AdvancePaymentDate:     req.AdvancePaymentDate,
		AdvancePaymentAmount:   req.AdvancePaymentAmount,
		Installation:           req.Installation,
		FinishingVisit:         req.FinishingVisit,
		QualityCheckDoneBy:     req.QualityCheckDoneBy,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResolveStep answers which wizard step a page URL lands on.
func (h *RecordHandler) ResolveStep(c *gin.Context) {
	state, err := h.customerService.ResolveStep(c.Request.Context(), c.Param("table"), c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *RecordHandler) SaveBasicDetails(c *gin.Context) {
	var req basicDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	result, err := h.customerService.SaveBasicDetails(c.Request.Context(), c.Param("table"), c.Request.URL.Query(), req.toModel())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RecordHandler) SkipMeasurements(c *gin.Context) {
	result, err := h.customerService.SkipMeasurements(c.Request.Context(), c.Param("table"), c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
