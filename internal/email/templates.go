package email

import "fmt"

func verificationTemplate(name, verifyURL, appName string) (string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`Hi %s,

Thanks for signing up. Confirm your email address with this link:
%s

The link expires in 24 hours. Until then your account cannot log in.

If you didn't create this account, ignore this email.

Best,
The %s Team`, name, verifyURL, appName)

	return subject, body
}

func welcomeTemplate(name, baseURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your email is verified and your account is active.

Get started: %s

If you have questions, reach out to our support team.

Best,
The %s Team`, name, baseURL, appName)

	return subject, body
}

func passwordResetTemplate(name, resetURL, appName string) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`Hi %s,

You requested a password reset. Choose a new password with this link:
%s

The link expires in 30 minutes and can only be used once.

If you didn't request this, ignore this email. Your password won't change.

Best,
The %s Team`, name, resetURL, appName)

	return subject, body
}
