package candidate

import (
	"strconv"

	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
)

// Hash field names.
const (
	fieldApplicantID = "applicant_id"
	fieldFirstName   = "first_name"
	fieldLastName    = "last_name"
	fieldDateOfBirth = "date_of_birth"
	fieldAddress     = "address"
	fieldPhoneNumber = "phone_number"
	fieldRole        = "role"
	fieldCVPath      = "cv_path"
	fieldCVText      = "cv_text"
)

// buildHashFields flattens a Candidate into HSET field/value pairs.
func buildHashFields(c *domcand.Candidate) map[string]string {
	p := c.Profile()
	return map[string]string{
		fieldApplicantID: strconv.FormatInt(c.ApplicantID(), 10),
		fieldFirstName:   p.FirstName,
		fieldLastName:    p.LastName,
		fieldDateOfBirth: p.DateOfBirth,
		fieldAddress:     p.Address,
		fieldPhoneNumber: p.PhoneNumber,
		fieldRole:        c.Role(),
		fieldCVPath:      c.CVPath(),
		fieldCVText:      c.CVText(),
	}
}

// parseHashFields hydrates a Candidate from HGETALL output.
func parseHashFields(id int64, m map[string]string) domcand.Candidate {
	applicantID, err := strconv.ParseInt(m[fieldApplicantID], 10, 64)
	if err != nil || applicantID <= 0 {
		applicantID = id
	}
	return domcand.Reconstruct(id, applicantID, domcand.Profile{
		FirstName:   m[fieldFirstName],
		LastName:    m[fieldLastName],
		DateOfBirth: m[fieldDateOfBirth],
		Address:     m[fieldAddress],
		PhoneNumber: m[fieldPhoneNumber],
	}, m[fieldRole], m[fieldCVPath], m[fieldCVText])
}
