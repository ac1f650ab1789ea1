package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"genesis-api/internal/domain"
	"genesis-api/internal/service"
)

// CustomerHandler expone el CRUD de /customers.
type CustomerHandler struct {
	logger    *zap.Logger
	customers *service.CustomerService
}

func NewCustomerHandler(logger *zap.Logger, customers *service.CustomerService) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{logger: logger, customers: customers}
}

type createCustomerRequest struct {
	CompanyName         string                `json:"companyName" binding:"required"`
	Address             string                `json:"address" binding:"required"`
	PhoneNumber         string                `json:"phoneNumber" binding:"required"`
	Email               string                `json:"email" binding:"required"`
	Website             string                `json:"website"`
	KvkNumber           string                `json:"kvkNumber" binding:"required"`
	LegalForm           string                `json:"legalForm" binding:"required"`
	MainActivity        string                `json:"mainActivity" binding:"required"`
	SideActivities      string                `json:"sideActivities"`
	DGA                 string                `json:"dga" binding:"required"`
	StaffFTE            *float64              `json:"staffFTE" binding:"required"`
	AnnualTurnover      *float64              `json:"annualTurnover" binding:"required"`
	GrossProfit         *float64              `json:"grossProfit" binding:"required"`
	PayrollYear         *float64              `json:"payrollYear" binding:"required"`
	Description         string                `json:"description"`
	VisitDate           string                `json:"visitDate" binding:"required,iso8601"`
	Advisor             string                `json:"advisor" binding:"required"`
	VisitLocation       string                `json:"visitLocation" binding:"required"`
	VisitFrequency      string                `json:"visitFrequency" binding:"required"`
	ConversationPartner string                `json:"conversationPartner" binding:"required"`
	Comments            string                `json:"comments"`
	Status              domain.CustomerStatus `json:"status" binding:"omitempty,oneof=in-progress completed on-hold cancelled"`
}

type updateCustomerRequest struct {
	CompanyName         *string                `json:"companyName"`
	Address             *string                `json:"address"`
	PhoneNumber         *string                `json:"phoneNumber"`
	Email               *string                `json:"email"`
	Website             *string                `json:"website"`
	KvkNumber           *string                `json:"kvkNumber"`
	LegalForm           *string                `json:"legalForm"`
	MainActivity        *string                `json:"mainActivity"`
	SideActivities      *string                `json:"sideActivities"`
	DGA                 *string                `json:"dga"`
	StaffFTE            *float64               `json:"staffFTE"`
	AnnualTurnover      *float64               `json:"annualTurnover"`
	GrossProfit         *float64               `json:"grossProfit"`
	PayrollYear         *float64               `json:"payrollYear"`
	Description         *string                `json:"description"`
	VisitDate           *string                `json:"visitDate" binding:"omitempty,iso8601"`
	Advisor             *string                `json:"advisor"`
	VisitLocation       *string                `json:"visitLocation"`
	VisitFrequency      *string                `json:"visitFrequency"`
	ConversationPartner *string                `json:"conversationPartner"`
	Comments            *string                `json:"comments"`
	Status              *domain.CustomerStatus `json:"status" binding:"omitempty,oneof=in-progress completed on-hold cancelled"`
}

// Create maneja POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), domain.Customer{
		CompanyName:         req.CompanyName,
		Address:             req.Address,
		PhoneNumber:         req.PhoneNumber,
		Email:               req.Email,
		Website:             req.Website,
		KvkNumber:           req.KvkNumber,
		LegalForm:           req.LegalForm,
		MainActivity:        req.MainActivity,
		SideActivities:      req.SideActivities,
		DGA:                 req.DGA,
		StaffFTE:            *req.StaffFTE,
		AnnualTurnover:      *req.AnnualTurnover,
		GrossProfit:         *req.GrossProfit,
		PayrollYear:         *req.PayrollYear,
		Description:         req.Description,
		VisitDate:           req.VisitDate,
		Advisor:             req.Advisor,
		VisitLocation:       req.VisitLocation,
		VisitFrequency:      req.VisitFrequency,
		ConversationPartner: req.ConversationPartner,
		Comments:            req.Comments,
		Status:              req.Status,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// List maneja GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

// Get maneja GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Update maneja PATCH /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	var req updateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), c.Param("id"), domain.CustomerPatch{
		CompanyName:         req.CompanyName,
		Address:             req.Address,
		PhoneNumber:         req.PhoneNumber,
		Email:               req.Email,
		Website:             req.Website,
		KvkNumber:           req.KvkNumber,
		LegalForm:           req.LegalForm,
		MainActivity:        req.MainActivity,
		SideActivities:      req.SideActivities,
		DGA:                 req.DGA,
		StaffFTE:            req.StaffFTE,
		AnnualTurnover:      req.AnnualTurnover,
		GrossProfit:         req.GrossProfit,
		PayrollYear:         req.PayrollYear,
		Description:         req.Description,
		VisitDate:           req.VisitDate,
		Advisor:             req.Advisor,
		VisitLocation:       req.VisitLocation,
		VisitFrequency:      req.VisitFrequency,
		ConversationPartner: req.ConversationPartner,
		Comments:            req.Comments,
		Status:              req.Status,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Delete maneja DELETE /customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
