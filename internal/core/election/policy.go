package election

// VotingType says whether a contest ranks its selections
type VotingType string

const (
	VotingNonPreferential VotingType = "non-preferential"
	VotingPreferential    VotingType = "preferential"
)

// CountingAlgorithm names the tally method of a contest
type CountingAlgorithm string

const (
	CountingPlurality     CountingAlgorithm = "plurality-at-large"
	CountingInstantRunoff CountingAlgorithm = "instant-runoff"
	CountingBorda         CountingAlgorithm = "borda"
	CountingBordaNauru    CountingAlgorithm = "borda-nauru"
	CountingCumulative    CountingAlgorithm = "cumulative"
	CountingOther         CountingAlgorithm = "other"
)

// Preferential reports whether the algorithm consumes ranked choices
func (a CountingAlgorithm) Preferential() bool {
	switch a {
	case CountingInstantRunoff, CountingBorda, CountingBordaNauru:
		return true
	default:
		return false
	}
}

// InvalidVotePolicy controls explicit invalid votes
type InvalidVotePolicy string

const (
	InvalidVoteAllowed    InvalidVotePolicy = "allowed"
	InvalidVoteWarn       InvalidVotePolicy = "warn"
	InvalidVoteNotAllowed InvalidVotePolicy = "not-allowed"
)

// BlankVotePolicy controls contests left without selections
type BlankVotePolicy string

const (
	BlankVoteAllowed    BlankVotePolicy = "allowed"
	BlankVoteWarn       BlankVotePolicy = "warn"
	BlankVoteNotAllowed BlankVotePolicy = "not-allowed"
)

// OverVotePolicy controls what the voting UI does past max votes
type OverVotePolicy string

const (
	OverVoteAllowed                     OverVotePolicy = "allowed"
	OverVoteNotAllowedWithMsg           OverVotePolicy = "not-allowed-with-msg"
	OverVoteNotAllowedWithMsgAndDisable OverVotePolicy = "not-allowed-with-msg-and-disable"
)

// CandidatesOrder controls candidate listing order in the voting UI
type CandidatesOrder string

const (
	OrderAlphabetical CandidatesOrder = "alphabetical"
	OrderCustom       CandidatesOrder = "custom"
	OrderRandom       CandidatesOrder = "random"
)

// ContestPresentation carries the UI policy of a contest. Only the
// invalid, blank and write-in policies affect decoding
type ContestPresentation struct {
	InvalidVotePolicy    InvalidVotePolicy `json:"invalid_vote_policy,omitempty" validate:"omitempty,oneof=allowed warn not-allowed"`
	BlankVotePolicy      BlankVotePolicy   `json:"blank_vote_policy,omitempty" validate:"omitempty,oneof=allowed warn not-allowed"`
	OverVotePolicy       OverVotePolicy    `json:"over_vote_policy,omitempty" validate:"omitempty,oneof=allowed not-allowed-with-msg not-allowed-with-msg-and-disable"`
	AllowWriteIns        bool              `json:"allow_writeins,omitempty"`
	CandidatesOrder      CandidatesOrder   `json:"candidates_order,omitempty" validate:"omitempty,oneof=alphabetical custom random"`
	ShufflePolicy        bool              `json:"shuffle_candidates,omitempty"`
	ShowPoints           bool              `json:"show_points,omitempty"`
	EnableCheckableLists bool              `json:"enable_checkable_lists,omitempty"`
	Layout               string            `json:"layout,omitempty" validate:"omitempty,oneof=simple ordered-list"`
}
