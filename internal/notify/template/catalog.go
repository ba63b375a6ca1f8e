// internal/notify/template/catalog.go
package template

import "ats-notifications/internal/notify/event"

// catalogEntry is a built-in subject/body pair for one event code.
type catalogEntry struct {
	Subject string
	Body    string
}

// wrapEmail produces the full HTML document shared by every built-in
// template: branded header, content cell, footer. Branding placeholders
// ({{org_name}}, {{org_logo}}, {{primary_color}}) are filled at render time
// from the organization row.
func wrapEmail(inner string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Arial,Helvetica,sans-serif;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:24px 0;">
<tr><td align="center">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;">
<tr>
<td style="background-color:{{primary_color}};padding:20px 32px;">
<img src="{{org_logo}}" alt="{{org_name}}" height="32" style="display:block;max-height:32px;">
</td>
</tr>
<tr>
<td style="padding:32px;color:#1f2933;font-size:15px;line-height:1.6;">
` + inner + `
</td>
</tr>
<tr>
<td style="padding:20px 32px;background-color:#f9fafb;color:#7b8794;font-size:12px;">
You are receiving this email because you are part of the {{org_name}} hiring team.
</td>
</tr>
</table>
</td></tr>
</table>
</body>
</html>`
}

// catalog is the in-process fallback template table, consulted when neither
// an org-custom nor a default database template exists for the event.
// Built once at init and treated as immutable.
var catalog = map[string]catalogEntry{
	event.CodeApplicationReceived: {
		Subject: "New application for {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p><strong>{{candidate_name}}</strong> has applied for the <strong>{{job_title}}</strong> position.</p>
<p><a href="{{link}}" style="color:{{primary_color}};">Review the application</a></p>`),
	},
	event.CodeApplicationStatusChanged: {
		Subject: "Application update: {{candidate_name}} is now {{application_status}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>The application from <strong>{{candidate_name}}</strong> for <strong>{{job_title}}</strong> moved to <strong>{{application_status}}</strong>.</p>
<p><a href="{{link}}" style="color:{{primary_color}};">View application</a></p>`),
	},
	event.CodeApplicationShortlisted: {
		Subject: "{{candidate_name}} shortlisted for {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p><strong>{{candidate_name}}</strong> has been shortlisted for <strong>{{job_title}}</strong>.</p>`),
	},
	event.CodeApplicationRejected: {
		Subject: "Your application at {{org_name}}",
		Body: wrapEmail(`<p>Dear {{candidate_name}},</p>
<p>Thank you for your interest in the <strong>{{job_title}}</strong> position at {{org_name}}.</p>
<p>After careful consideration we have decided not to move forward with your application at this time. We encourage you to apply for future openings that match your profile.</p>
<p>Best regards,<br>The {{org_name}} team</p>`),
	},
	event.CodeCandidateHired: {
		Subject: "{{candidate_name}} hired for {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>Great news: <strong>{{candidate_name}}</strong> has been hired for <strong>{{job_title}}</strong>.</p>`),
	},
	event.CodeCandidateAdded: {
		Subject: "New candidate added: {{candidate_name}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p><strong>{{candidate_name}}</strong> was added to the candidate pool.</p>`),
	},
	event.CodeCandidateNoteAdded: {
		Subject: "New note on {{candidate_name}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>A new note was added to <strong>{{candidate_name}}</strong>'s profile.</p>
<p><a href="{{link}}" style="color:{{primary_color}};">Read the note</a></p>`),
	},
	event.CodeScreeningCompleted: {
		Subject: "Screening completed for {{candidate_name}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p><strong>{{candidate_name}}</strong> completed the screening questions for <strong>{{job_title}}</strong>.</p>
<p><a href="{{link}}" style="color:{{primary_color}};">View responses</a></p>`),
	},
	event.CodeInterviewScheduled: {
		Subject: "Interview scheduled: {{candidate_name}} for {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>An interview has been scheduled with <strong>{{candidate_name}}</strong> for the <strong>{{job_title}}</strong> position.</p>
<table role="presentation" cellpadding="0" cellspacing="0" style="margin:16px 0;background-color:#f9fafb;border-radius:6px;width:100%;">
<tr><td style="padding:16px;font-size:14px;">
<strong>Date:</strong> {{interview_date}}<br>
<strong>Time:</strong> {{interview_time}}<br>
<strong>Location:</strong> {{interview_location}}
</td></tr>
</table>
<p><a href="{{meeting_link}}" style="color:{{primary_color}};">Join meeting</a></p>`),
	},
	event.CodeInterviewRescheduled: {
		Subject: "Interview rescheduled: {{candidate_name}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>The interview with <strong>{{candidate_name}}</strong> for <strong>{{job_title}}</strong> has been rescheduled.</p>
<table role="presentation" cellpadding="0" cellspacing="0" style="margin:16px 0;background-color:#f9fafb;border-radius:6px;width:100%;">
<tr><td style="padding:16px;font-size:14px;">
<strong>New date:</strong> {{interview_date}}<br>
<strong>New time:</strong> {{interview_time}}<br>
<strong>Location:</strong> {{interview_location}}
</td></tr>
</table>`),
	},
	event.CodeInterviewCancelled: {
		Subject: "Interview cancelled: {{candidate_name}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>The interview with <strong>{{candidate_name}}</strong> for <strong>{{job_title}}</strong> scheduled on {{interview_date}} has been cancelled.</p>`),
	},
	event.CodeInterviewReminder: {
		Subject: "Reminder: interview with {{candidate_name}} on {{interview_date}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>This is a reminder of your upcoming interview with <strong>{{candidate_name}}</strong> for <strong>{{job_title}}</strong>.</p>
<p><strong>{{interview_date}}</strong> at <strong>{{interview_time}}</strong>, {{interview_location}}</p>
<p><a href="{{meeting_link}}" style="color:{{primary_color}};">Join meeting</a></p>`),
	},
	event.CodeInterviewFeedbackSubmitted: {
		Subject: "Interview feedback submitted for {{candidate_name}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>Feedback was submitted for the interview with <strong>{{candidate_name}}</strong> ({{job_title}}).</p>
<p><a href="{{link}}" style="color:{{primary_color}};">Read feedback</a></p>`),
	},
	event.CodeOfferSent: {
		Subject: "Your offer from {{org_name}}",
		Body: wrapEmail(`<p>Dear {{candidate_name}},</p>
<p>Congratulations! {{org_name}} is pleased to offer you the <strong>{{job_title}}</strong> position.</p>
<table role="presentation" cellpadding="0" cellspacing="0" style="margin:16px 0;background-color:#f9fafb;border-radius:6px;width:100%;">
<tr><td style="padding:16px;font-size:14px;">
<strong>Salary:</strong> {{offer_salary}}<br>
<strong>Start date:</strong> {{offer_start_date}}
</td></tr>
</table>
<p><a href="{{link}}" style="display:inline-block;padding:10px 24px;background-color:{{primary_color}};color:#ffffff;border-radius:6px;text-decoration:none;">View and respond to your offer</a></p>
<p>This offer expires on {{offer_expiry}}.</p>`),
	},
	event.CodeOfferAccepted: {
		Subject: "{{candidate_name}} accepted the offer for {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p><strong>{{candidate_name}}</strong> has accepted the offer for <strong>{{job_title}}</strong>.</p>`),
	},
	event.CodeOfferDeclined: {
		Subject: "{{candidate_name}} declined the offer for {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p><strong>{{candidate_name}}</strong> has declined the offer for <strong>{{job_title}}</strong>.</p>`),
	},
	event.CodeOfferExpiring: {
		Subject: "Offer for {{candidate_name}} expires on {{offer_expiry}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>The offer sent to <strong>{{candidate_name}}</strong> for <strong>{{job_title}}</strong> expires on <strong>{{offer_expiry}}</strong> and has not been answered yet.</p>`),
	},
	event.CodeJobPublished: {
		Subject: "Job published: {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>The <strong>{{job_title}}</strong> position is now live on your career page.</p>
<p><a href="{{link}}" style="color:{{primary_color}};">View posting</a></p>`),
	},
	event.CodeJobClosed: {
		Subject: "Job closed: {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>The <strong>{{job_title}}</strong> position has been closed.</p>`),
	},
	event.CodeJobExpiring: {
		Subject: "Job posting expiring soon: {{job_title}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>The posting for <strong>{{job_title}}</strong> expires soon. Extend it to keep receiving applications.</p>`),
	},
	event.CodeTeamMemberInvited: {
		Subject: "You have been invited to join {{org_name}}",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p>You have been invited to join the {{org_name}} hiring team.</p>
<p><a href="{{link}}" style="display:inline-block;padding:10px 24px;background-color:{{primary_color}};color:#ffffff;border-radius:6px;text-decoration:none;">Accept invitation</a></p>`),
	},
	event.CodeTeamMemberJoined: {
		Subject: "{{member_name}} joined your hiring team",
		Body: wrapEmail(`<p>Hi {{receiver_name}},</p>
<p><strong>{{member_name}}</strong> has joined the {{org_name}} hiring team.</p>`),
	},
}

// CatalogEntry returns the built-in template for an event code.
func CatalogEntry(code string) (subject, bodyHTML string, ok bool) {
	entry, ok := catalog[code]
	if !ok {
		return "", "", false
	}
	return entry.Subject, entry.Body, true
}

// CatalogCodes lists every event code with a built-in template.
func CatalogCodes() []string {
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	return codes
}
