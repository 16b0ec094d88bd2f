package notification

import (
	"bytes"
	"embed"
	htmltmpl "html/template"
	texttmpl "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	otpEmailTmpl = htmltmpl.Must(htmltmpl.ParseFS(templateFS, "templates/otp_email.tmpl"))
	otpSMSTmpl   = texttmpl.Must(texttmpl.ParseFS(templateFS, "templates/otp_sms.tmpl"))
)

// OTPMessageData carries the variables for a one-time passcode message.
type OTPMessageData struct {
	Name       string
	Code       string
	Reason     string // human wording, e.g. "verify your email address"
	TTLMinutes int
}

// BuildOTPNotification materializes an OTP message for the given channel.
func BuildOTPNotification(recipient string, channel Channel, subject string, data OTPMessageData) (Notification, error) {
	n := Notification{Recipient: recipient, Channels: []Channel{channel}}

	switch channel {
	case ChannelSMS:
		var buf bytes.Buffer
		if err := otpSMSTmpl.ExecuteTemplate(&buf, "otp_sms.tmpl", data); err != nil {
			return Notification{}, err
		}
		n.Content.SMSText = buf.String()
	default:
		var buf bytes.Buffer
		if err := otpEmailTmpl.ExecuteTemplate(&buf, "otp_email.tmpl", data); err != nil {
			return Notification{}, err
		}
		n.Content.EmailSubject = subject
		n.Content.EmailHTMLBody = buf.String()
	}

	return n, nil
}
