package entity

// OTPPurpose scopes a one-time code to the flow it gates.
type OTPPurpose string

const (
	OTPPurposeUnknown      OTPPurpose = ""
	OTPPurposeRegistration OTPPurpose = "REGISTRATION"
)

func (p OTPPurpose) String() string { return string(p) }

func (p OTPPurpose) Ensure() OTPPurpose {
	switch p {
	case OTPPurposeRegistration:
		return p
	default:
		return OTPPurposeUnknown
	}
}

// Role is the authorization subject carried in access tokens.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string { return string(r) }

// Ensure maps anything unrecognized to the least privileged role.
func (r Role) Ensure() Role {
	switch r {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleMember
	}
}
