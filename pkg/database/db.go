package database

import (
	"log"
	"time"

	"github.com/arnavshah/bloodclub-api-go/pkg/compat"
	"github.com/arnavshah/bloodclub-api-go/pkg/config"
	"github.com/arnavshah/bloodclub-api-go/pkg/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Donor represents the donors table
type Donor struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	StudentID         string     `json:"student_id"`
	Department        string     `gorm:"index" json:"department"`
	BloodGroup        string     `gorm:"size:3;index;not null" json:"blood_group"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email"`
	ContactPreference string     `json:"contact_preference"`
	Willing           bool       `gorm:"not null" json:"willing"`
	LastDonation      *time.Time `json:"last_donation"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// BloodRequest represents the requests table
type BloodRequest struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	PatientName     string     `gorm:"not null" json:"patient_name"`
	BloodGroup      string     `gorm:"size:3;index;not null" json:"blood_group"`
	Units           int        `gorm:"default:1" json:"units"`
	NeededBy        string     `gorm:"size:10;index" json:"needed_by"`
	Location        string     `json:"location"`
	ContactPerson   string     `json:"contact_person"`
	ContactPhone    string     `json:"contact_phone"`
	Notes           string     `json:"notes"`
	Status          string     `gorm:"size:16;index;default:open" json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	FulfilledAt     *time.Time `json:"fulfilled_at"`
	MatchedDonorIDs []string   `gorm:"serializer:json" json:"matched_donor_ids"`
	UpdatedAt       *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// APIKey represents the api_keys table for partner access
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	Revoked    bool       `gorm:"not null;default:false" json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	DonorsScanned int    `gorm:"default:0" json:"donors_scanned"`
	MatchesFound  int    `gorm:"default:0" json:"matches_found"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile represents the profiles table, one row per account
type Profile struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	Username   string     `gorm:"uniqueIndex;not null" json:"username"`
	Batch      string     `json:"batch"`
	Department string     `json:"department"`
	Phone1     string     `json:"phone1"`
	Phone2     string     `json:"phone2"`
	BloodGroup string     `gorm:"size:3" json:"blood_group"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// ToModel converts the row into its API representation
func (p *Profile) ToModel() models.Profile {
	return models.Profile{
		Username:   p.Username,
		Batch:      p.Batch,
		Department: p.Department,
		Phone1:     p.Phone1,
		Phone2:     p.Phone2,
		BloodGroup: compat.BloodGroup(p.BloodGroup),
		UpdatedAt:  utcPtr(p.UpdatedAt),
	}
}

// BeforeCreate assigns a UUID when the donor has none
func (d *Donor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when the request has none
func (r *BloodRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ToModel converts the row into its API representation
func (d *Donor) ToModel() models.Donor {
	return models.Donor{
		ID:                d.ID,
		Name:              d.Name,
		StudentID:         d.StudentID,
		Department:        d.Department,
		BloodGroup:        compat.BloodGroup(d.BloodGroup),
		Phone:             d.Phone,
		Email:             d.Email,
		ContactPreference: d.ContactPreference,
		Willing:           d.Willing,
		LastDonation:      utcPtr(d.LastDonation),
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         utcPtr(d.UpdatedAt),
	}
}

// DonorFromModel converts an API donor into a row, keeping its ID and timestamps
func DonorFromModel(m models.Donor) Donor {
	return Donor{
		ID:                m.ID,
		Name:              m.Name,
		StudentID:         m.StudentID,
		Department:        m.Department,
		BloodGroup:        string(m.BloodGroup),
		Phone:             m.Phone,
		Email:             m.Email,
		ContactPreference: m.ContactPreference,
		Willing:           m.Willing,
		LastDonation:      m.LastDonation,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ToModel converts the row into its API representation
func (r *BloodRequest) ToModel() models.BloodRequest {
	matched := r.MatchedDonorIDs
	if matched == nil {
		matched = []string{}
	}
	return models.BloodRequest{
		ID:              r.ID,
		PatientName:     r.PatientName,
		BloodGroup:      compat.BloodGroup(r.BloodGroup),
		Units:           r.Units,
		NeededBy:        r.NeededBy,
		Location:        r.Location,
		ContactPerson:   r.ContactPerson,
		ContactPhone:    r.ContactPhone,
		Notes:           r.Notes,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.UTC(),
		FulfilledAt:     utcPtr(r.FulfilledAt),
		MatchedDonorIDs: matched,
	}
}

// RequestFromModel converts an API request into a row, keeping its ID and timestamps
func RequestFromModel(m models.BloodRequest) BloodRequest {
	return BloodRequest{
		ID:              m.ID,
		PatientName:     m.PatientName,
		BloodGroup:      string(m.BloodGroup),
		Units:           m.Units,
		NeededBy:        m.NeededBy,
		Location:        m.Location,
		ContactPerson:   m.ContactPerson,
		ContactPhone:    m.ContactPhone,
		Notes:           m.Notes,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		FulfilledAt:     m.FulfilledAt,
		MatchedDonorIDs: m.MatchedDonorIDs,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Open connects to Postgres when a DSN is configured, SQLite otherwise, and migrates the schema
func Open(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DataPath), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Donor{}, &BloodRequest{}, &APIKey{}, &APIUsage{}, &MasterUser{}, &Profile{})
}

// InitDB opens the database or exits the process
func InitDB(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	return db
}
