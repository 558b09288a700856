package mailer

import (
	"fmt"
	"html"
	"strings"
)

func esc(s string) string {
	return html.EscapeString(s)
}

// SubmissionConfirmation is sent to whoever submitted a store.
func SubmissionConfirmation(name, storeName string, isOwner bool) (subject, body string) {
	subject = fmt.Sprintf("We received your submission: %s", storeName)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thanks, %s!</h2>", esc(name))
	fmt.Fprintf(&b, "<p>We received your submission for <strong>%s</strong>. Our team reviews every listing before it goes live, usually within a few days.</p>", esc(storeName))
	if isOwner {
		b.WriteString("<p>Since you told us you own or manage this store, we will follow up about claiming the listing so you can keep its hours and details current.</p>")
	}
	b.WriteString("<p>Happy fishkeeping,<br />The LFSDirectory team</p>")
	return subject, b.String()
}

// SubmissionAdminNotice tells the admin a new store is waiting in the queue.
func SubmissionAdminNotice(storeName, city, state, submitter, submitterEmail, adminURL string) (subject, body string) {
	subject = fmt.Sprintf("[LFSDirectory] New store submission: %s", storeName)
	body = fmt.Sprintf(
		"<h2>New store submission</h2><p><strong>%s</strong><br />%s, %s</p><p>Submitted by %s (%s)</p><p><a href=\"%s\">Review pending submissions</a></p>",
		esc(storeName), esc(city), esc(state), esc(submitter), esc(submitterEmail), esc(adminURL),
	)
	return subject, body
}

// ClaimVerification carries the link that marks a claimant's email as verified.
func ClaimVerification(name, storeName, verifyURL string) (subject, body string) {
	subject = fmt.Sprintf("Verify your claim for %s", storeName)
	body = fmt.Sprintf(
		"<h2>Hi %s,</h2><p>Confirm your email to continue claiming <strong>%s</strong> on LFSDirectory.</p><p><a href=\"%s\">Verify my email</a></p><p>If you did not request this, you can ignore this email.</p>",
		esc(name), esc(storeName), esc(verifyURL),
	)
	return subject, body
}

// AdminMagicLink carries the one-time admin sign-in link.
func AdminMagicLink(loginURL string) (subject, body string) {
	subject = "Your LFSDirectory admin sign-in link"
	body = fmt.Sprintf(
		"<p>Click the link below to sign in to the LFSDirectory admin. The link expires in 15 minutes.</p><p><a href=\"%s\">Sign in</a></p>",
		esc(loginURL),
	)
	return subject, body
}

// ContactForm relays a visitor message to the site owner.
func ContactForm(name, email, subjectLine, message string) (subject, body string) {
	if strings.TrimSpace(subjectLine) == "" {
		subject = "[LFSDirectory Contact] New message"
		subjectLine = "N/A"
	} else {
		subject = "[LFSDirectory Contact] " + subjectLine
	}
	body = fmt.Sprintf(
		"<h2>New Contact Form Submission</h2><p><strong>Name:</strong> %s</p><p><strong>Email:</strong> <a href=\"mailto:%s\">%s</a></p><p><strong>Subject:</strong> %s</p><hr /><p><strong>Message:</strong></p><p>%s</p><hr /><small>Sent from LFSDirectory.com contact form</small>",
		esc(name), esc(email), esc(email), esc(subjectLine),
		strings.ReplaceAll(esc(message), "\n", "<br />"),
	)
	return subject, body
}
