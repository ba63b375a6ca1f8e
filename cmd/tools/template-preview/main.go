// cmd/tools/template-preview/main.go
//
// Renders a built-in email template with sample variables so the HTML can
// be checked in a browser without a running service:
//
//	go run ./cmd/tools/template-preview -event interview_scheduled > preview.html
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"ats-notifications/internal/models"
	"ats-notifications/internal/notify/template"
)

var sampleVars = models.Variables{
	"org_name":           "Acme Talent",
	"org_logo":           "https://example.com/logo.png",
	"primary_color":      "#2563eb",
	"candidate_name":     "Jordan Pierce",
	"job_title":          "Senior Backend Engineer",
	"job_location":       "Berlin",
	"application_status": "shortlisted",
	"interview_date":     "Monday, March 2, 2026",
	"interview_time":     "10:30 AM",
	"interview_location": "Video call",
	"meeting_link":       "https://meet.example.com/abc",
	"offer_salary":       "EUR 85,000",
	"offer_start_date":   "April 1, 2026",
	"offer_expiry":       "Friday, March 13, 2026",
	"member_name":        "Sam Okafor",
	"link":               "https://app.example.com/inbox",
}

func main() {
	eventCode := flag.String("event", "", "event code to render (empty lists all codes)")
	showSubject := flag.Bool("subject", false, "print the rendered subject line before the body")
	flag.Parse()

	if *eventCode == "" {
		fmt.Fprintln(os.Stderr, "available event codes:")
		fmt.Fprintln(os.Stderr, "  "+strings.Join(template.CatalogCodes(), "\n  "))
		os.Exit(2)
	}

	subject, body, ok := template.CatalogEntry(*eventCode)
	if !ok {
		fmt.Fprintf(os.Stderr, "no built-in template for event %q\n", *eventCode)
		os.Exit(1)
	}

	rendered := template.PersonalizeReceiver(template.ReplaceVariables(body, sampleVars), "Alex")
	if *showSubject {
		fmt.Fprintf(os.Stderr, "Subject: %s\n", template.PersonalizeReceiver(template.ReplaceVariables(subject, sampleVars), "Alex"))
	}
	fmt.Println(rendered)
}
