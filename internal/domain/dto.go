package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// APIResponse is a generic success envelope
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// ---- Lead ingestion (public webhook) ----

// IncomingLeadRequest is the payload external sources post to the lead
// webhook. Value accepts either a JSON number or a numeric string.
type IncomingLeadRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Company string          `json:"company"`
	Value   json.RawMessage `json:"value"`
}

// LeadAcceptedResponse is returned when a lead produced a deal
type LeadAcceptedResponse struct {
	Success   bool      `json:"success"`
	DealID    uuid.UUID `json:"dealId"`
	ContactID uuid.UUID `json:"contactId"`
	Message   string    `json:"message"`
}

// LeadErrorResponse is the webhook's error wire format
type LeadErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ---- Pipelines and board ----

// CreatePipelineRequest creates a pipeline with its initial stages
type CreatePipelineRequest struct {
	Name   string               `json:"name" validate:"required,max=200"`
	Type   PipelineType         `json:"type" validate:"required,oneof=PROSPECTING SALES POST_SALES"`
	Stages []CreateStageRequest `json:"stages" validate:"dive"`
}

// UpdatePipelineRequest renames a pipeline
type UpdatePipelineRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateStageRequest adds a stage to a pipeline
type CreateStageRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Order int    `json:"order" validate:"gte=0"`
}

// UpdateStageRequest renames or reorders a stage
type UpdateStageRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Order *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// BoardDealDTO is a deal card on the kanban board
type BoardDealDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Value       *float64  `json:"value"`
	Status      DealStatus `json:"status"`
	ContactID   *uuid.UUID `json:"contactId,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
	Company     string    `json:"company,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

// BoardStageDTO is a stage column with its open deals
type BoardStageDTO struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Order int            `json:"order"`
	Deals []BoardDealDTO `json:"deals"`
}

// BoardPipelineDTO is a pipeline with ordered stage columns
type BoardPipelineDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       PipelineType    `json:"type"`
	IsEditable bool            `json:"isEditable"`
	Stages     []BoardStageDTO `json:"stages"`
}

// ---- Deals ----

// CreateDealRequest creates a deal directly (not via the lead webhook)
type CreateDealRequest struct {
	Title      string     `json:"title" validate:"required,max=300"`
	Value      *float64   `json:"value,omitempty" validate:"omitempty,gte=0"`
	ContactID  *uuid.UUID `json:"contactId,omitempty"`
	OwnerID    *uuid.UUID `json:"ownerId,omitempty"`
	PipelineID uuid.UUID  `json:"pipelineId" validate:"required"`
	StageID    uuid.UUID  `json:"stageId" validate:"required"`
}

// UpdateDealRequest updates mutable deal fields
type UpdateDealRequest struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,max=300"`
	Value     *float64   `json:"value,omitempty" validate:"omitempty,gte=0"`
	ContactID *uuid.UUID `json:"contactId,omitempty"`
	OwnerID   *uuid.UUID `json:"ownerId,omitempty"`
}

// MoveDealRequest moves a deal to another stage of its pipeline
type MoveDealRequest struct {
	StageID uuid.UUID `json:"stageId" validate:"required"`
}

// LoseDealRequest closes a deal as lost
type LoseDealRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ---- Contacts ----

// CreateContactRequest creates a contact
type CreateContactRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company   *string `json:"company,omitempty" validate:"omitempty,max=200"`
	IsClient  bool    `json:"isClient"`
}

// UpdateContactRequest updates a contact
type UpdateContactRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company   *string `json:"company,omitempty" validate:"omitempty,max=200"`
	IsClient  *bool   `json:"isClient,omitempty"`
}

// ---- Auth and users ----

// LoginRequest authenticates a sales user
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the user profile
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateUserRequest creates a sales team member
type CreateUserRequest struct {
	FirstName string     `json:"firstName" validate:"required,max=100"`
	LastName  string     `json:"lastName" validate:"required,max=100"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Password  string     `json:"password" validate:"required,min=8"`
	TeamID    *uuid.UUID `json:"teamId,omitempty"`
}

// UpdateUserRequest updates a sales team member
type UpdateUserRequest struct {
	FirstName *string    `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string    `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Password  *string    `json:"password,omitempty" validate:"omitempty,min=8"`
	TeamID    *uuid.UUID `json:"teamId,omitempty"`
}

// CreateTeamRequest creates a team
type CreateTeamRequest struct {
	Name    string     `json:"name" validate:"required,max=200"`
	OwnerID *uuid.UUID `json:"ownerId,omitempty"`
}

// ---- Goals ----

// CreateGoalRequest creates a goal
type CreateGoalRequest struct {
	Metric      GoalMetric `json:"metric" validate:"required,oneof=REVENUE DEALS_WON APPOINTMENTS_SCHEDULED"`
	TargetValue float64    `json:"targetValue" validate:"required,gt=0"`
	TargetUser  *uuid.UUID `json:"targetUser,omitempty"`
	TargetTeam  *uuid.UUID `json:"targetTeam,omitempty"`
	StartDate   string     `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string     `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// GoalProgressDTO reports progress toward a goal
type GoalProgressDTO struct {
	GoalID       uuid.UUID  `json:"goalId"`
	Metric       GoalMetric `json:"metric"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	Percent      float64    `json:"percent"`
}

// ---- Expenses ----

// CreateExpenseRequest records an expense
type CreateExpenseRequest struct {
	Description string    `json:"description" validate:"required,max=500"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
	ExpenseDate string    `json:"expenseDate" validate:"required,datetime=2006-01-02"`
}

// CreateExpenseCategoryRequest creates an expense category
type CreateExpenseCategoryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// ---- Webhook configs ----

// CreateWebhookRequest registers an inbound webhook configuration
type CreateWebhookRequest struct {
	Name             string     `json:"name" validate:"required,max=200"`
	Event            string     `json:"event" validate:"required,max=100"`
	LinkedPipelineID *uuid.UUID `json:"linkedPipelineId,omitempty"`
}

// UpdateWebhookRequest toggles or renames a webhook configuration
type UpdateWebhookRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// ---- Tags ----

// CreateTagRequest creates a tag
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

// ---- Dashboard and reports ----

// DashboardStatsDTO is the month-over-month summary for the dashboard
type DashboardStatsDTO struct {
	TotalLeads        int64   `json:"totalLeads"`
	Conversions       int64   `json:"conversions"`
	Revenue           float64 `json:"revenue"`
	ConversionRate    float64 `json:"conversionRate"`
	LeadsGrowth       float64 `json:"leadsGrowth"`
	ConversionsGrowth float64 `json:"conversionsGrowth"`
	RevenueGrowth     float64 `json:"revenueGrowth"`
}

// RecentDealDTO is a dashboard row for a recently created deal
type RecentDealDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Value       *float64   `json:"value"`
	Status      DealStatus `json:"status"`
	ContactName string     `json:"contactName,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

// MonthlyRevenueDTO is one month of won revenue for reports
type MonthlyRevenueDTO struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// StatusDistributionDTO counts deals per status
type StatusDistributionDTO struct {
	Status DealStatus `json:"status"`
	Count  int64      `json:"count"`
}

// ExpensesByCategoryDTO sums expenses per category for reports
type ExpensesByCategoryDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}
