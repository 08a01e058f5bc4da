package notify

import "fmt"

// Template helpers produce the subject and body for each notification kind.
// Bodies stay plain enough to read in text-only clients after tag stripping.

func FormAssignmentMessage(to, replyTo, employeeName, formTitle, formDescription, formLink string) Message {
	desc := ""
	if formDescription != "" {
		desc = fmt.Sprintf("<p>%s</p>", formDescription)
	}
	return Message{
		To:      to,
		ReplyTo: replyTo,
		Subject: fmt.Sprintf("New feedback form assigned: %s", formTitle),
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>You have been assigned the feedback form <strong>%s</strong>.</p>%s<p><a href="%s">Open your dashboard</a> to fill it in.</p>`,
			employeeName, formTitle, desc, formLink),
	}
}

func ResponseSubmittedMessage(to, replyTo, adminName, submitterName, formTitle, responseLink string) Message {
	return Message{
		To:      to,
		ReplyTo: replyTo,
		Subject: fmt.Sprintf("New response for %s", formTitle),
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p><strong>%s</strong> submitted a response to <strong>%s</strong>.</p><p><a href="%s">View responses</a>.</p>`,
			adminName, submitterName, formTitle, responseLink),
	}
}

func PasswordResetMessage(to, employeeName, resetLink string) Message {
	return Message{
		To:      to,
		Subject: "Password reset request",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>A password reset was requested for your account. The link below is valid for one hour and works once.</p><p><a href="%s">Reset your password</a></p><p>If you did not request this, ignore this email.</p>`,
			employeeName, resetLink),
	}
}

func PasswordResetSuccessMessage(to, employeeName string) Message {
	return Message{
		To:      to,
		Subject: "Your password was changed",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>Your password was just changed. If this was not you, contact your administrator immediately.</p>`,
			employeeName),
	}
}
