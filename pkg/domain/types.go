package domain

// PaperStatus tracks an uploaded paper through the extraction pipeline.
type PaperStatus string

const (
	PaperPending    PaperStatus = "pending"
	PaperExtracting PaperStatus = "extracting"
	PaperAnalyzing  PaperStatus = "analyzing"
	PaperCompleted  PaperStatus = "completed"
	PaperFailed     PaperStatus = "failed"
)

// InProgress reports whether the backend may still transition this status.
func (s PaperStatus) InProgress() bool {
	switch s {
	case PaperPending, PaperExtracting, PaperAnalyzing:
		return true
	}
	return false
}

// Terminal reports whether no further automatic transition is expected.
func (s PaperStatus) Terminal() bool { return !s.InProgress() }

// GenerationStatus tracks an AI-generated paper.
type GenerationStatus string

const (
	GenerationRunning   GenerationStatus = "generating"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// Terminal reports whether generation has finished, successfully or not.
func (s GenerationStatus) Terminal() bool { return s != GenerationRunning }

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// MessageRole is the author of a conversation message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// AnswerKeyMarker separates paper body from answer key in assistant replies
// that carry a full rewrite. Clients render such replies as a confirmation
// instead of dumping the whole paper into the transcript.
const AnswerKeyMarker = "===ANSWER_KEY==="

// User mirrors the backend user record. Timestamps stay as the wire strings
// because the backend emits naive ISO timestamps without a zone.
type User struct {
	ID         int64    `json:"id"`
	Email      string   `json:"email"`
	Username   string   `json:"username"`
	FullName   string   `json:"full_name"`
	SchoolName string   `json:"school_name"`
	Role       UserRole `json:"role"`
	CreatedAt  string   `json:"created_at"`
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type UploadedPaper struct {
	ID               int64       `json:"id"`
	Filename         string      `json:"filename"`
	OriginalFilename string      `json:"original_filename"`
	FileType         string      `json:"file_type"`
	Board            string      `json:"board"`
	Status           PaperStatus `json:"status"`
	GradeLevel       string      `json:"grade_level"`
	Subject          string      `json:"subject"`
	TopicsJSON       string      `json:"topics_json"`
	ErrorMessage     string      `json:"error_message"`
	QuestionCount    int         `json:"question_count"`
	CreatedAt        string      `json:"created_at"`
}

// PaperStatusInfo is the slim payload of the status-only endpoint.
type PaperStatusInfo struct {
	ID            int64       `json:"id"`
	Status        PaperStatus `json:"status"`
	ErrorMessage  string      `json:"error_message"`
	QuestionCount int         `json:"question_count"`
}

type ExtractedQuestion struct {
	ID            int64  `json:"id"`
	PaperID       int64  `json:"paper_id"`
	QuestionText  string `json:"question_text"`
	AnswerText    string `json:"answer_text"`
	QuestionType  string `json:"question_type"`
	Difficulty    string `json:"difficulty"`
	Board         string `json:"board"`
	GradeLevel    string `json:"grade_level"`
	Subject       string `json:"subject"`
	Topic         string `json:"topic"`
	Marks         int    `json:"marks"`
	OptionsJSON   string `json:"options_json"`
	CorrectOption string `json:"correct_option"`
	BloomLevel    string `json:"bloom_level"`
	OrderInPaper  int    `json:"order_in_paper"`
}

type QuestionStats struct {
	TotalQuestions int            `json:"total_questions"`
	ByType         map[string]int `json:"by_type"`
	ByDifficulty   map[string]int `json:"by_difficulty"`
	BySubject      map[string]int `json:"by_subject"`
	ByGrade        map[string]int `json:"by_grade"`
	ByBoard        map[string]int `json:"by_board"`
}

type GeneratedPaper struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Status            GenerationStatus `json:"status"`
	Board             string           `json:"board"`
	GradeLevel        string           `json:"grade_level"`
	Subject           string           `json:"subject"`
	TopicsJSON        string           `json:"topics_json"`
	DifficultyMixJSON string           `json:"difficulty_mix_json"`
	TotalMarks        int              `json:"total_marks"`
	DurationMinutes   int              `json:"duration_minutes"`
	ContentMarkdown   string           `json:"content_markdown"`
	AnswerKeyMarkdown string           `json:"answer_key_markdown"`
	ErrorMessage      string           `json:"error_message"`
	CreatedAt         string           `json:"created_at"`
}

type GeneratedPaperListItem struct {
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	Status     GenerationStatus `json:"status"`
	Board      string           `json:"board"`
	GradeLevel string           `json:"grade_level"`
	Subject    string           `json:"subject"`
	CreatedAt  string           `json:"created_at"`
}

// GenerationStatusInfo is the slim payload of the generation status endpoint.
type GenerationStatusInfo struct {
	ID           int64            `json:"id"`
	Status       GenerationStatus `json:"status"`
	ErrorMessage string           `json:"error_message"`
}

type ConversationMessage struct {
	ID               int64       `json:"id"`
	GeneratedPaperID int64       `json:"generated_paper_id"`
	Role             MessageRole `json:"role"`
	Content          string      `json:"content"`
	CreatedAt        string      `json:"created_at"`
}

// ChatExchange is the response to a chat send: the refined paper plus the
// authoritative message sequence.
type ChatExchange struct {
	Paper    GeneratedPaper        `json:"paper"`
	Messages []ConversationMessage `json:"messages"`
}

type GeneratePaperRequest struct {
	Title                  string         `json:"title"`
	Board                  string         `json:"board"`
	GradeLevel             string         `json:"grade_level"`
	Subject                string         `json:"subject"`
	Topics                 []string       `json:"topics,omitempty"`
	QuestionTypes          []string       `json:"question_types,omitempty"`
	DifficultyMix          map[string]int `json:"difficulty_mix,omitempty"`
	TotalMarks             int            `json:"total_marks,omitempty"`
	DurationMinutes        int            `json:"duration_minutes,omitempty"`
	AdditionalInstructions string         `json:"additional_instructions,omitempty"`
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	SchoolName string `json:"school_name,omitempty"`
}

type UpdateProfileRequest struct {
	FullName        string `json:"full_name,omitempty"`
	Email           string `json:"email,omitempty"`
	Username        string `json:"username,omitempty"`
	SchoolName      string `json:"school_name,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

type AdminStats struct {
	TotalUsers           int    `json:"total_users"`
	TotalAdmins          int    `json:"total_admins"`
	TotalPapersUploaded  int    `json:"total_papers_uploaded"`
	TotalQuestions       int    `json:"total_questions"`
	TotalPapersGenerated int    `json:"total_papers_generated"`
	RecentUsers          []User `json:"recent_users"`
}

type AdminCreateUserRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Password   string `json:"password"`
	SchoolName string `json:"school_name,omitempty"`
	Role       string `json:"role,omitempty"`
}

type AdminUpdateUserRequest struct {
	FullName   string `json:"full_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	SchoolName string `json:"school_name,omitempty"`
	Role       string `json:"role,omitempty"`
}

type UserPaperItem struct {
	ID               int64       `json:"id"`
	OriginalFilename string      `json:"original_filename"`
	Board            string      `json:"board"`
	GradeLevel       string      `json:"grade_level"`
	Subject          string      `json:"subject"`
	Status           PaperStatus `json:"status"`
	QuestionCount    int         `json:"question_count"`
	CreatedAt        string      `json:"created_at"`
}

type UserGeneratedItem struct {
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	Board      string           `json:"board"`
	GradeLevel string           `json:"grade_level"`
	Subject    string           `json:"subject"`
	Status     GenerationStatus `json:"status"`
	CreatedAt  string           `json:"created_at"`
}

// UserDetail is the admin view of a single account with activity rollups.
type UserDetail struct {
	ID                 int64               `json:"id"`
	Email              string              `json:"email"`
	Username           string              `json:"username"`
	FullName           string              `json:"full_name"`
	SchoolName         string              `json:"school_name"`
	Role               UserRole            `json:"role"`
	PlainPassword      string              `json:"plain_password"`
	CreatedAt          string              `json:"created_at"`
	PapersUploaded     int                 `json:"papers_uploaded"`
	QuestionsExtracted int                 `json:"questions_extracted"`
	PapersGenerated    int                 `json:"papers_generated"`
	UploadedPapers     []UserPaperItem     `json:"uploaded_papers"`
	GeneratedPapers    []UserGeneratedItem `json:"generated_papers"`
}
