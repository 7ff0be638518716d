package candidate

import (
	"fmt"
	"time"
)

// MaxTextSize is the maximum extracted CV text size in bytes.
const MaxTextSize = 1 << 20 // 1 MiB

// DateLayout is the date_of_birth wire and storage format.
const DateLayout = "2006-01-02"

// Profile holds applicant personal data.
type Profile struct {
	FirstName   string
	LastName    string
	DateOfBirth string // YYYY-MM-DD, optional
	Address     string
	PhoneNumber string
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Candidate is one application: an applicant profile, the applied role and
// the plain text extracted from the CV.
type Candidate struct {
	id          int64
	applicantID int64
	profile     Profile
	role        string
	cvPath      string
	cvText      string
}

// New validates and creates a Candidate. applicantID defaults to id.
func New(id, applicantID int64, profile Profile, role, cvPath, cvText string) (Candidate, error) {
	if id <= 0 {
		return Candidate{}, fmt.Errorf("candidate ID must be positive, got %d", id)
	}
	if applicantID < 0 {
		return Candidate{}, fmt.Errorf("applicant ID must not be negative, got %d", applicantID)
	}
	if applicantID == 0 {
		applicantID = id
	}
	if profile.DateOfBirth != "" {
		if _, err := time.Parse(DateLayout, profile.DateOfBirth); err != nil {
			return Candidate{}, fmt.Errorf("date_of_birth must be YYYY-MM-DD: %w", err)
		}
	}
	if len(cvText) > MaxTextSize {
		return Candidate{}, fmt.Errorf("cv text too large (max %d bytes)", MaxTextSize)
	}

	return Candidate{
		id:          id,
		applicantID: applicantID,
		profile:     profile,
		role:        role,
		cvPath:      cvPath,
		cvText:      cvText,
	}, nil
}

// Reconstruct creates a Candidate without validation (storage hydration).
func Reconstruct(id, applicantID int64, profile Profile, role, cvPath, cvText string) Candidate {
	return Candidate{
		id:          id,
		applicantID: applicantID,
		profile:     profile,
		role:        role,
		cvPath:      cvPath,
		cvText:      cvText,
	}
}

// ID returns the application identifier.
func (c *Candidate) ID() int64 { return c.id }

// ApplicantID returns the applicant identifier.
func (c *Candidate) ApplicantID() int64 { return c.applicantID }

// Profile returns the applicant profile.
func (c *Candidate) Profile() Profile { return c.profile }

// Role returns the applied role.
func (c *Candidate) Role() string { return c.role }

// CVPath returns the source document location.
func (c *Candidate) CVPath() string { return c.cvPath }

// CVText returns the extracted plain text.
func (c *Candidate) CVText() string { return c.cvText }

// Document returns the searchable snapshot of this candidate.
func (c *Candidate) Document() Document {
	return Document{ID: c.id, Text: c.cvText}
}

// Document is an immutable snapshot of one candidate's searchable text.
type Document struct {
	ID   int64
	Text string
}
