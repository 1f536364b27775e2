package models

// Fixed catalogs that parameterize forms and filters.
var (
	Branches  = []string{"CSE", "ECE", "ME", "EE", "Civil", "IT"}
	Semesters = []int{1, 2, 3, 4, 5, 6, 7, 8}
	ExamTypes = []ExamType{ExamMidsem, ExamEndsem}
)

const (
	MinSemester = 1
	MaxSemester = 8
)

// SubjectsByBranch lists the subjects offered to each branch.
var SubjectsByBranch = map[string][]string{
	"CSE":   {"Data Structures", "Algorithms", "Operating Systems", "Database Systems", "Computer Networks", "Compiler Design"},
	"ECE":   {"Digital Electronics", "Signals and Systems", "Control Systems", "Analog Circuits", "Communication Systems"},
	"ME":    {"Thermodynamics", "Fluid Mechanics", "Machine Design", "Strength of Materials", "Manufacturing Processes"},
	"EE":    {"Electrical Machines", "Power Systems", "Control Systems", "Circuit Theory", "Power Electronics"},
	"Civil": {"Structural Analysis", "Surveying", "Geotechnical Engineering", "Transportation Engineering", "Concrete Technology"},
	"IT":    {"Web Technologies", "Software Engineering", "Information Security", "Cloud Computing", "Data Mining"},
}

func IsValidBranch(branch string) bool {
	for _, b := range Branches {
		if b == branch {
			return true
		}
	}
	return false
}

func IsValidSemester(semester int) bool {
	return semester >= MinSemester && semester <= MaxSemester
}
