package staff

// Sheet is the staff directory: one row per (person, unit) binding.
// Columns: Unit, Name, Role, UID, StaffID, Status. The first row is the
// header; a person serving two units appears twice with the same UID.
const Sheet = "Staff_List"

const (
	ColUnit    = 0
	ColName    = 1
	ColRole    = 2
	ColUID     = 3
	ColStaffID = 4
	ColStatus  = 5
)

// Header is the row seeded at sheet position 1 on a fresh store; roster
// rows are loaded below it by the agency's data import.
var Header = []string{"Unit", "Name", "Role", "UID", "Staff ID", "Status"}

// StatusActive marks a directory row whose chat identity has been bound.
const StatusActive = "Active"

// Member is one staff directory row.
type Member struct {
	Unit    string `json:"unit"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	UID     string `json:"uid"`
	StaffID string `json:"staffId"`
}

// reviewerRoles are the elevated roles: unit-wide visibility and review
// authority over leave and case applications.
var reviewerRoles = map[string]struct{}{
	"Supervisor":       {},
	"督導":               {},
	"Business Manager": {},
	"業務負責人":            {},
}

// IsReviewer reports whether role belongs to the elevated set.
func IsReviewer(role string) bool {
	_, ok := reviewerRoles[role]
	return ok
}
