package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are assigned in BeforeCreate so the
// same models work against Postgres and the sqlite test database.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"column:createdat;not null;autoCreateTime" json:"createdAt"`
}

// BeforeCreate assigns a fresh UUID when the caller did not set one.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DealStatus represents the lifecycle state of a deal
type DealStatus string

const (
	DealStatusOpen DealStatus = "OPEN"
	DealStatusWon  DealStatus = "WON"
	DealStatusLost DealStatus = "LOST"
)

// IsValid checks whether the status is a known value
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusOpen, DealStatusWon, DealStatusLost:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the deal lifecycle
func (s DealStatus) IsTerminal() bool {
	return s == DealStatusWon || s == DealStatusLost
}

// PipelineType classifies a pipeline
type PipelineType string

const (
	PipelineTypeProspecting PipelineType = "PROSPECTING"
	PipelineTypeSales       PipelineType = "SALES"
	PipelineTypePostSales   PipelineType = "POST_SALES"
)

// IsValid checks whether the pipeline type is a known value
func (t PipelineType) IsValid() bool {
	switch t {
	case PipelineTypeProspecting, PipelineTypeSales, PipelineTypePostSales:
		return true
	}
	return false
}

// GoalMetric identifies what a goal measures
type GoalMetric string

const (
	GoalMetricRevenue      GoalMetric = "REVENUE"
	GoalMetricDealsWon     GoalMetric = "DEALS_WON"
	GoalMetricAppointments GoalMetric = "APPOINTMENTS_SCHEDULED"
)

// IsValid checks whether the goal metric is a known value
func (m GoalMetric) IsValid() bool {
	switch m {
	case GoalMetricRevenue, GoalMetricDealsWon, GoalMetricAppointments:
		return true
	}
	return false
}

// Contact represents a person deals are attached to. Email is the lookup
// key for lead ingestion; no unique constraint exists, so concurrent
// ingests of the same address can both insert.
type Contact struct {
	BaseModel
	FirstName  string     `gorm:"column:firstname;type:varchar(100);not null" json:"firstName"`
	LastName   string     `gorm:"column:lastname;type:varchar(100);not null" json:"lastName"`
	Email      *string    `gorm:"column:email;type:varchar(255);index" json:"email"`
	Phone      *string    `gorm:"column:phone;type:varchar(50)" json:"phone,omitempty"`
	Company    *string    `gorm:"column:company;type:varchar(200)" json:"company,omitempty"`
	IsClient   bool       `gorm:"column:isclient;not null;default:false" json:"isClient"`
	ImportedBy *uuid.UUID `gorm:"column:importedby;type:uuid" json:"importedBy,omitempty"`
}

func (Contact) TableName() string { return "contacts" }

// FullName returns the contact's display name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Pipeline groups ordered stages into a board
type Pipeline struct {
	BaseModel
	Name       string       `gorm:"column:pipelinename;type:varchar(200);not null" json:"name"`
	Type       PipelineType `gorm:"column:pipelinetype;type:varchar(50);not null;index" json:"type"`
	IsEditable bool         `gorm:"column:iseditable;not null;default:true" json:"isEditable"`
	Stages     []Stage      `gorm:"foreignKey:PipelineID;constraint:OnDelete:CASCADE" json:"stages,omitempty"`
}

func (Pipeline) TableName() string { return "pipelines" }

// Stage is a column within a pipeline. The lowest Order is the entry
// stage for newly ingested deals.
type Stage struct {
	BaseModel
	Name       string    `gorm:"column:stagename;type:varchar(200);not null" json:"name"`
	Order      int       `gorm:"column:stageorder;not null" json:"order"`
	PipelineID uuid.UUID `gorm:"column:pipelineid;type:uuid;not null;index" json:"pipelineId"`
}

func (Stage) TableName() string { return "stages" }

// Deal is the sales object moving through a pipeline. StageID must always
// reference a stage of PipelineID.
type Deal struct {
	BaseModel
	Title      string     `gorm:"column:dealtitle;type:varchar(300);not null" json:"title"`
	Value      *float64   `gorm:"column:dealvalue" json:"value"`
	Status     DealStatus `gorm:"column:status;type:varchar(20);not null;default:'OPEN';index" json:"status"`
	ContactID  *uuid.UUID `gorm:"column:contactid;type:uuid;index" json:"contactId"`
	OwnerID    *uuid.UUID `gorm:"column:ownerid;type:uuid;index" json:"ownerId"`
	PipelineID uuid.UUID  `gorm:"column:pipelineid;type:uuid;not null;index" json:"pipelineId"`
	StageID    uuid.UUID  `gorm:"column:stageid;type:uuid;not null;index" json:"stageId"`
	WonAt      *time.Time `gorm:"column:wonat" json:"wonAt,omitempty"`
	LostAt     *time.Time `gorm:"column:lostat" json:"lostAt,omitempty"`
	LostReason *string    `gorm:"column:lostreason;type:varchar(500)" json:"lostReason,omitempty"`

	Contact *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Tags    []Tag    `gorm:"many2many:dealtags;foreignKey:ID;joinForeignKey:dealid;References:ID;joinReferences:tagid" json:"tags,omitempty"`
}

func (Deal) TableName() string { return "deals" }

// User is a member of the sales team
type User struct {
	BaseModel
	FirstName         string     `gorm:"column:firstname;type:varchar(100);not null" json:"firstName"`
	LastName          string     `gorm:"column:lastname;type:varchar(100);not null" json:"lastName"`
	Email             string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash      string     `gorm:"column:passwordhash;type:varchar(255);not null" json:"-"`
	ProfilePictureURL *string    `gorm:"column:profilepictureurl;type:varchar(500)" json:"profilePictureUrl,omitempty"`
	RoleID            *uuid.UUID `gorm:"column:roleid;type:uuid" json:"roleId,omitempty"`
	TeamID            *uuid.UUID `gorm:"column:teamid;type:uuid;index" json:"teamId,omitempty"`
}

func (User) TableName() string { return "users" }

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Team groups users under an owner
type Team struct {
	BaseModel
	Name    string     `gorm:"column:teamname;type:varchar(200);not null" json:"name"`
	OwnerID *uuid.UUID `gorm:"column:ownerid;type:uuid" json:"ownerId,omitempty"`
}

func (Team) TableName() string { return "teams" }

// Goal is a sales target for a user or team over a date window
type Goal struct {
	BaseModel
	Metric      GoalMetric `gorm:"column:metric;type:varchar(50);not null" json:"metric"`
	TargetValue float64    `gorm:"column:targetvalue;not null" json:"targetValue"`
	TargetUser  *uuid.UUID `gorm:"column:targetuser;type:uuid" json:"targetUser,omitempty"`
	TargetTeam  *uuid.UUID `gorm:"column:targetteam;type:uuid" json:"targetTeam,omitempty"`
	StartDate   time.Time  `gorm:"column:startdate;not null" json:"startDate"`
	EndDate     time.Time  `gorm:"column:enddate;not null" json:"endDate"`
}

func (Goal) TableName() string { return "goals" }

// ExpenseCategory classifies expenses
type ExpenseCategory struct {
	BaseModel
	Name       string `gorm:"column:categoryname;type:varchar(200);not null" json:"name"`
	IsEditable bool   `gorm:"column:iseditable;not null;default:true" json:"isEditable"`
}

func (ExpenseCategory) TableName() string { return "expensecategories" }

// Expense is a recorded cost against a category
type Expense struct {
	BaseModel
	Description string    `gorm:"column:description;type:varchar(500);not null" json:"description"`
	Amount      float64   `gorm:"column:amount;not null" json:"amount"`
	CategoryID  uuid.UUID `gorm:"column:categoryid;type:uuid;not null;index" json:"categoryId"`
	ExpenseDate time.Time `gorm:"column:expensedate;not null" json:"expenseDate"`
	RecordedBy  uuid.UUID `gorm:"column:recordedby;type:uuid;not null" json:"recordedBy"`

	Category *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Expense) TableName() string { return "expenses" }

// Tag is a label that can be attached to deals
type Tag struct {
	BaseModel
	Name  string `gorm:"column:tagname;type:varchar(100);not null" json:"name"`
	Color string `gorm:"column:color;type:varchar(20)" json:"color"`
}

func (Tag) TableName() string { return "tags" }

// Webhook is an inbound webhook configuration telling integrators which
// pipeline posted leads land in.
type Webhook struct {
	BaseModel
	Name             string     `gorm:"column:webhookname;type:varchar(200);not null" json:"name"`
	TargetURL        string     `gorm:"column:targeturl;type:varchar(500);not null" json:"targetUrl"`
	Event            string     `gorm:"column:event;type:varchar(100);not null" json:"event"`
	LinkedPipelineID *uuid.UUID `gorm:"column:linkedpipelineid;type:uuid" json:"linkedPipelineId,omitempty"`
	IsActive         bool       `gorm:"column:isactive;not null;default:true" json:"isActive"`
}

func (Webhook) TableName() string { return "webhooks" }
