package domain

// Boards, grades, and subjects offered in upload and generation forms.
var Boards = []string{"CBSE", "ICSE", "State Board", "IB", "Custom"}

var Grades = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

var Subjects = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"English",
	"Hindi",
	"History",
	"Geography",
	"Political Science",
	"Economics",
	"Computer Science",
	"Accountancy",
	"Business Studies",
	"Environmental Science",
	"General Science",
	"Social Science",
}

var QuestionTypes = []string{"mcq", "short_answer", "long_answer", "fill_blank", "true_false"}

var Difficulties = []string{"easy", "medium", "hard"}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ValidBoard reports whether v is one of the known boards.
func ValidBoard(v string) bool { return contains(Boards, v) }

// ValidGrade reports whether v is a grade between 1 and 12.
func ValidGrade(v string) bool { return contains(Grades, v) }

// ValidSubject reports whether v is one of the known subjects.
func ValidSubject(v string) bool { return contains(Subjects, v) }
