package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hi {{.Name}}, verify your email address</h2>
    <p>Thank you for signing up! Please click the link below to verify your email address and activate your account.</p>
    <p><a href="{{.Link}}">Verify Email Address</a></p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all;">{{.Link}}</p>
    <p>If you didn't create an account, you can safely ignore this email.</p>
</body>
</html>
`))

var resetTmpl = template.Must(template.New("passwordReset").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Hi {{.Name}}, reset your password</h2>
    <p>You requested to reset your password. Click the link below to create a new password.</p>
    <p><a href="{{.Link}}">Reset Password</a></p>
    <p>Or copy and paste this link into your browser:</p>
    <p style="word-break: break-all;">{{.Link}}</p>
    <p>This link expires shortly. If you didn't request a password reset, you can safely ignore this email.</p>
</body>
</html>
`))

type templateData struct {
	Name string
	Link string
}

func renderVerificationBody(name, link string) (string, error) {
	var buf bytes.Buffer
	if err := verificationTmpl.Execute(&buf, templateData{Name: name, Link: link}); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func renderResetBody(name, link string) (string, error) {
	var buf bytes.Buffer
	if err := resetTmpl.Execute(&buf, templateData{Name: name, Link: link}); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
