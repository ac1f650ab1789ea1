package domain

import "time"

type CustomerStatus string

const (
	CustomerInProgress CustomerStatus = "in-progress"
	CustomerCompleted  CustomerStatus = "completed"
	CustomerOnHold     CustomerStatus = "on-hold"
	CustomerCancelled  CustomerStatus = "cancelled"
)

// Customer es la ficha de visita/evaluación de una empresa cliente.
type Customer struct {
	ID                  string         `json:"id" bson:"_id"`
	CompanyName         string         `json:"companyName" bson:"companyName"`
	Address             string         `json:"address" bson:"address"`
	PhoneNumber         string         `json:"phoneNumber" bson:"phoneNumber"`
	Email               string         `json:"email" bson:"email"`
	Website             string         `json:"website,omitempty" bson:"website,omitempty"`
	KvkNumber           string         `json:"kvkNumber" bson:"kvkNumber"`
	LegalForm           string         `json:"legalForm" bson:"legalForm"`
	MainActivity        string         `json:"mainActivity" bson:"mainActivity"`
	SideActivities      string         `json:"sideActivities,omitempty" bson:"sideActivities,omitempty"`
	DGA                 string         `json:"dga" bson:"dga"`
	StaffFTE            float64        `json:"staffFTE" bson:"staffFTE"`
	AnnualTurnover      float64        `json:"annualTurnover" bson:"annualTurnover"`
	GrossProfit         float64        `json:"grossProfit" bson:"grossProfit"`
	PayrollYear         float64        `json:"payrollYear" bson:"payrollYear"`
	Description         string         `json:"description,omitempty" bson:"description,omitempty"`
	VisitDate           string         `json:"visitDate" bson:"visitDate"`
	Advisor             string         `json:"advisor" bson:"advisor"`
	VisitLocation       string         `json:"visitLocation" bson:"visitLocation"`
	VisitFrequency      string         `json:"visitFrequency" bson:"visitFrequency"`
	ConversationPartner string         `json:"conversationPartner" bson:"conversationPartner"`
	Comments            string         `json:"comments,omitempty" bson:"comments,omitempty"`
	Status              CustomerStatus `json:"status" bson:"status"`
	CreatedAt           time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// CustomerPatch lleva solo los campos a modificar; nil significa sin cambios.
type CustomerPatch struct {
	CompanyName         *string
	Address             *string
	PhoneNumber         *string
	Email               *string
	Website             *string
	KvkNumber           *string
	LegalForm           *string
	MainActivity        *string
	SideActivities      *string
	DGA                 *string
	StaffFTE            *float64
	AnnualTurnover      *float64
	GrossProfit         *float64
	PayrollYear         *float64
	Description         *string
	VisitDate           *string
	Advisor             *string
	VisitLocation       *string
	VisitFrequency      *string
	ConversationPartner *string
	Comments            *string
	Status              *CustomerStatus
}
