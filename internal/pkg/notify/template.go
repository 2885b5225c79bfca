package notify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

/**
 * @file: template.go
 * @description: guest mail subjects and bodies
 */

const verificationBody = `Hello {{with trim .FirstName}}{{title .}}{{else}}there{{end}},

Your verification code is: {{.Code}}

The code expires at {{.ExpiresAt.UTC.Format "2006-01-02 15:04 MST"}}.
{{- if .RedirectUrl}}

Continue at: {{.RedirectUrl}}
{{- end}}
`

const invitationBody = `Hello,

You have been invited to join tenant {{.TenantId}}.

Your invitation token is: {{.Token}}

The invitation expires at {{.ExpiresAt.UTC.Format "2006-01-02 15:04 MST"}}.
{{- if .RedirectUrl}}

Register at: {{.RedirectUrl}}
{{- end}}
`

const (
	verificationSubject = "Verify your email address"
	invitationSubject   = "You have been invited"
)

var funcMap = template.FuncMap{
	// a Caser keeps state, so each call gets its own
	"title": func(s string) string { return cases.Title(language.English, cases.NoLower).String(s) },
	"trim":  strings.TrimSpace,
}

var (
	verificationTpl = template.Must(template.New("verification").Funcs(funcMap).Parse(verificationBody))
	invitationTpl   = template.Must(template.New("invitation").Funcs(funcMap).Parse(invitationBody))
)

func render(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s mail: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderVerification returns the subject and body of a verification mail
func RenderVerification(mail VerificationMail) (string, string, error) {
	body, err := render(verificationTpl, mail)
	return verificationSubject, body, err
}

// RenderInvitation returns the subject and body of an invitation mail
func RenderInvitation(mail InvitationMail) (string, string, error) {
	body, err := render(invitationTpl, mail)
	return invitationSubject, body, err
}
