package session

// Recitation test modes. naqza and juz are the everyday ones; the rest
// select wider slices of the catalog for review tests.
const (
	ModeNaqza     = "naqza"
	ModeJuz       = "juz"
	ModeFiveBlock = "five_block"
	ModeQuarter   = "quarter"
	ModeHalf      = "half"
	ModeWhole     = "whole"
)

func ValidMode(m string) bool {
	switch m {
	case ModeNaqza, ModeJuz, ModeFiveBlock, ModeQuarter, ModeHalf, ModeWhole:
		return true
	}
	return false
}

// Session is one graded recitation attempt. Immutable after insert
// except attempt_at and the two fields derived from it.
type Session struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Mode      string `json:"mode"`

	// Exactly one of these is set, matching Mode (none for whole).
	SelectedNaqza     *int `json:"selected_naqza,omitempty"`
	SelectedJuz       *int `json:"selected_juz,omitempty"`
	SelectedFiveBlock *int `json:"selected_five_block,omitempty"`
	SelectedQuarter   *int `json:"selected_quarter,omitempty"`
	SelectedHalf      *int `json:"selected_half,omitempty"`

	ThumunID int `json:"thumun_id"`

	// Snapshot of the tested unit at creation time.
	SurahNumber int `json:"surah_number"`
	Hizb        int `json:"hizb"`
	Juz         int `json:"juz"`
	Naqza       int `json:"naqza"`

	FathaPrompts int  `json:"fatha_prompts"`
	TaradudCount int  `json:"taradud_count"`
	Passed       bool `json:"passed"`
	Score        int  `json:"score"`

	AttemptAt     int64  `json:"attempt_at"` // unix seconds
	WeekStartDate string `json:"week_start_date"`
	AttemptDay    string `json:"attempt_day"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ReportRow is a session with the owning student's display fields
// joined in, as served by the weekly and range views.
type ReportRow struct {
	Session
	StudentNumber int    `json:"student_number"`
	StudentName   string `json:"student_name"`
}

// SelectedValue returns the populated filter value, 0 when none.
func (s Session) SelectedValue() int {
	for _, p := range []*int{s.SelectedNaqza, s.SelectedJuz, s.SelectedFiveBlock, s.SelectedQuarter, s.SelectedHalf} {
		if p != nil {
			return *p
		}
	}
	return 0
}
