package entity

// Template names an email layout under usecase/templates.
type Template string

const (
	TemplateOTPCode Template = "otp_code.html"
	TemplateWelcome Template = "welcome.html"
)

func (t Template) String() string { return string(t) }

// Subject is the mail subject line sent with t.
func (t Template) Subject() string {
	switch t {
	case TemplateOTPCode:
		return "Your MindCare verification code"
	case TemplateWelcome:
		return "Welcome to MindCare"
	default:
		return "MindCare"
	}
}
