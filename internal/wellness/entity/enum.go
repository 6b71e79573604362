package entity

type TransactionKind string

const (
	TransactionRecharge TransactionKind = "recharge"
	TransactionUsage    TransactionKind = "usage"
)

// Service is what wallet minutes are spent on.
type Service string

const (
	ServiceUnknown Service = ""
	ServiceCall    Service = "call"
	ServiceChat    Service = "chat"
)

func (s Service) String() string { return string(s) }

func (s Service) Ensure() Service {
	switch s {
	case ServiceCall, ServiceChat:
		return s
	default:
		return ServiceUnknown
	}
}

type MembershipAction string

const (
	MembershipJoin  MembershipAction = "join"
	MembershipLeave MembershipAction = "leave"
)

const (
	SessionTypeCounselling = "counselling"
	SessionTypeQuick       = "quick"

	EntryTypeJournal = "journal"
)
